// Package tools defines the Tool interface for LLM agents, including the
// parameter schema and a name-keyed registry. Tools enable agents to interact
// with external systems and APIs in a structured, extensible way.
package tools

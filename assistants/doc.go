// Package assistants implements the tool-calling agent loop: an Assistant
// owns a chat model, a set of tools and an optional conversation store, and
// drives the model until it produces a final answer.
package assistants

// Package llms defines the provider-neutral model surface: chat messages
// and their parts, tool call payloads, call options and the Model
// interface the assistant drives. The openai and anthropic subpackages
// implement Model over the vendor SDKs; pkg/llmfactory picks and builds
// one from configuration.
package llms

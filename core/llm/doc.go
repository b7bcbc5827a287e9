// Package llm turns a natural language request into suggested shell
// commands by prompting a local model and picking the commands out of its
// streamed reply.
package llm

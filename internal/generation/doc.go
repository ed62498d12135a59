// Package generation defines the boundary to external text-generation
// services (LLMs such as Gemini). The core only ever sees a TextGenerator:
// a single prompt in, a single completion out, with no conversation state.
package generation

// Package assembler rebuilds sentences from a stream of subtitle blocks.
//
// Subtitle blocks follow screen time rather than grammar: a sentence may
// span several blocks and a block may hold the end of one sentence and the
// start of the next. A State consumes normalized blocks, decides through a
// Policy whether each block continues the open sentence, tokenizes and
// corrects its lines, splits them at dialogue dashes and stop punctuation,
// and hands every completed Sentence to a Sink.
package assembler

/*
Package ppm provides an adaptive, character-level statistical text predictor.

A Model learns how often each character follows every context of recent
history, from the empty context up to a configurable maximum order. Contexts
are stored sparsely, keyed by string, so only what the training data actually
contains takes memory. Sampling walks from the longest context to the
shortest, backing off with an escape probability that falls as evidence
accumulates, and draws from a fixed fallback alphabet when nothing has been
observed.

Generation is online: every character the model produces is learned before
the next one is drawn. Randomness is injected (WithSeed, WithRand), so runs
are reproducible.
*/
package ppm

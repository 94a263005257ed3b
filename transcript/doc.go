// Package transcript holds the timed word list that readalong plays back
// and edits. The Store owns the transcript; every mutation goes through
// Store.ReplaceWord.
package transcript

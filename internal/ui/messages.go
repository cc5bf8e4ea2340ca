package ui

import (
	"github.com/olivier-w/wavy/internal/media"
	"github.com/olivier-w/wavy/internal/pipeline"
)

// Every message produced by background work carries the generation of the
// request that started it. The model drops messages from older generations.

type loadedMsg struct {
	gen uint64
	src media.Source
	err error
}

type decodeProgressMsg struct {
	gen      uint64
	fraction float64
}

type renderedMsg struct {
	gen     uint64
	result  pipeline.Result
	preview string
	cols    int
	rows    int
}

type previewMsg struct {
	gen     uint64
	preview string
	cols    int
	rows    int
	err     error
}

type fileSavedMsg struct {
	destName string
	err      error
}

type clearNoticeMsg struct {
	id int
}

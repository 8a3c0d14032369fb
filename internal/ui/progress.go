package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Phase is one stage of a split run, shown in front of its bar
type Phase string

const (
	PhaseLoading   Phase = "Loading"
	PhaseGrouping  Phase = "Grouping"
	PhaseWriting   Phase = "Writing"
	PhaseReporting Phase = "Reporting"
)

var barTheme = progressbar.Theme{
	Saucer:        "█",
	SaucerHead:    "█",
	SaucerPadding: "░",
	BarStart:      "[",
	BarEnd:        "]",
}

// ProgressBar counts the steps of one phase. The assembler describes each
// step with the label of the document being written.
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	title string
	total int
}

// NewProgressBar creates a stand-alone bar on stdout
func NewProgressBar(phase Phase, total int) *ProgressBar {
	return newBar(string(phase), total, os.Stdout)
}

func newBar(title string, total int, w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("["+title+"]"),
		progressbar.OptionSetTheme(barTheme),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true), // short phases finish before their first redraw
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetPredictTime(total > 1),
	)
	return &ProgressBar{bar: bar, title: title, total: total}
}

// Increment advances the bar by one step
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// SetTotal changes the number of steps once it is known
func (pb *ProgressBar) SetTotal(total int) {
	pb.total = total
	pb.bar.ChangeMax(total)
}

// Describe shows what the current step works on, e.g. "[3/4 Writing] X_1"
func (pb *ProgressBar) Describe(description string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.title, description))
}

// Finish completes the bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Pipeline shows one bar per phase, in order
type Pipeline struct {
	phases  []Phase
	next    int
	current *ProgressBar
	output  io.Writer
}

// NewPipeline creates a pipeline writing to stdout
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stdout)
}

// NewPipelineWithOutput creates a pipeline writing to output
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{phases: phases, output: output}
}

// Disable discards all bar output (-quiet). Bars are still returned.
func (p *Pipeline) Disable() {
	p.output = io.Discard
}

// NextPhase finishes the running bar and starts the next phase.
// It returns nil once every phase has been started.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	if p.next >= len(p.phases) {
		return nil
	}
	title := fmt.Sprintf("%d/%d %s", p.next+1, len(p.phases), p.phases[p.next])
	p.next++

	p.current = newBar(title, total, p.output)
	return p.current
}

// Finish completes the running bar, if any
func (p *Pipeline) Finish() {
	if p.current != nil {
		p.current.Finish()
		p.current = nil
	}
}

// PrintSummary prints a closing line below the bars
func (p *Pipeline) PrintSummary(message string) {
	fmt.Fprintln(p.output, message)
}

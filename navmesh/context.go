package navmesh

import (
	"fmt"
	"time"
)

// LogCategory classifies a Context log line.
type LogCategory int

const (
	LogProgress LogCategory = 1 + iota
	LogWarning
	LogError
)

// Timer identifies one of the named stage timers a Context accumulates.
type Timer int

const (
	TimerTotal Timer = iota
	TimerRasterizeTriangles
	TimerBuildCompactHeightfield
	TimerErodeArea
	TimerMarkConvexPolyArea
	TimerBuildDistanceField
	TimerBuildDistanceFieldDist
	TimerBuildDistanceFieldBlur
	TimerBuildRegions
	TimerBuildRegionsWatershed
	TimerBuildRegionsExpand
	TimerBuildRegionsFlood
	TimerBuildRegionsFilter
	TimerBuildContours
	TimerBuildContoursTrace
	TimerBuildContoursSimplify
	TimerFilterBorder
	TimerFilterWalkable
	TimerFilterLowObstacles
	TimerBuildPolyMesh
	TimerMergePolyMeshes
	TimerBuildPolyMeshDetail
	TimerMergePolyMeshDetails
	maxTimers
)

var timerNames = [maxTimers]string{
	TimerTotal:                   "total",
	TimerRasterizeTriangles:      "rasterize",
	TimerBuildCompactHeightfield: "build compact heightfield",
	TimerErodeArea:               "erode area",
	TimerMarkConvexPolyArea:      "mark convex poly area",
	TimerBuildDistanceField:      "build distance field",
	TimerBuildDistanceFieldDist:  "  distance",
	TimerBuildDistanceFieldBlur:  "  blur",
	TimerBuildRegions:            "build regions",
	TimerBuildRegionsWatershed:   "  watershed",
	TimerBuildRegionsExpand:      "    expand",
	TimerBuildRegionsFlood:       "    flood",
	TimerBuildRegionsFilter:      "  filter",
	TimerBuildContours:           "build contours",
	TimerBuildContoursTrace:      "  trace",
	TimerBuildContoursSimplify:   "  simplify",
	TimerFilterBorder:            "filter ledges",
	TimerFilterWalkable:          "filter low height",
	TimerFilterLowObstacles:      "filter low obstacles",
	TimerBuildPolyMesh:           "build poly mesh",
	TimerMergePolyMeshes:         "merge poly meshes",
	TimerBuildPolyMeshDetail:     "build poly mesh detail",
	TimerMergePolyMeshDetails:    "merge poly mesh details",
}

// Context accumulates log messages and per-stage timings across one
// navmesh build. A nil *Context is valid everywhere a Context is accepted:
// every method is a no-op on a nil receiver, so callers that don't care
// about diagnostics can pass nil straight through the pipeline.
type Context struct {
	LogEnabled   bool
	TimerEnabled bool

	messages  []string
	startTime [maxTimers]time.Time
	accTime   [maxTimers]time.Duration
}

// NewContext returns a Context with logging and timers enabled.
func NewContext() *Context {
	return &Context{LogEnabled: true, TimerEnabled: true}
}

func (c *Context) log(cat LogCategory, format string, args ...any) {
	if c == nil || !c.LogEnabled {
		return
	}
	var prefix string
	switch cat {
	case LogProgress:
		prefix = "PROG "
	case LogWarning:
		prefix = "WARN "
	case LogError:
		prefix = "ERR  "
	}
	c.messages = append(c.messages, prefix+fmt.Sprintf(format, args...))
}

func (c *Context) Progressf(format string, args ...any) { c.log(LogProgress, format, args...) }
func (c *Context) Warningf(format string, args ...any)  { c.log(LogWarning, format, args...) }
func (c *Context) Errorf(format string, args ...any)    { c.log(LogError, format, args...) }

// Messages returns every log line accumulated so far.
func (c *Context) Messages() []string {
	if c == nil {
		return nil
	}
	return c.messages
}

// ResetLog discards all accumulated log lines.
func (c *Context) ResetLog() {
	if c == nil {
		return
	}
	c.messages = c.messages[:0]
}

// ResetTimers zeroes every timer's accumulated duration.
func (c *Context) ResetTimers() {
	if c == nil {
		return
	}
	c.accTime = [maxTimers]time.Duration{}
}

func (c *Context) StartTimer(t Timer) {
	if c == nil || !c.TimerEnabled {
		return
	}
	c.startTime[t] = time.Now()
}

func (c *Context) StopTimer(t Timer) {
	if c == nil || !c.TimerEnabled {
		return
	}
	c.accTime[t] += time.Since(c.startTime[t])
}

// AccumulatedTime returns the total time spent inside timer t.
func (c *Context) AccumulatedTime(t Timer) time.Duration {
	if c == nil {
		return 0
	}
	return c.accTime[t]
}

// DumpTimings writes a human-readable stage-by-stage timing report,
// one line per named timer with elapsed time and share of the total.
func (c *Context) DumpTimings(w fmtStringer) {
	if c == nil || !c.TimerEnabled {
		return
	}
	total := c.accTime[TimerTotal]
	for t := TimerTotal + 1; t < maxTimers; t++ {
		d := c.accTime[t]
		if d == 0 {
			continue
		}
		pct := float64(0)
		if total > 0 {
			pct = float64(d) / float64(total) * 100
		}
		fmt.Fprintf(w, "%-28s %10s %5.1f%%\n", timerNames[t], d.Round(time.Microsecond), pct)
	}
}

// fmtStringer is the minimal io.Writer-like surface DumpTimings needs,
// kept narrow so callers can pass an *os.File, a bytes.Buffer, or a
// strings.Builder without importing io here.
type fmtStringer interface {
	Write(p []byte) (n int, err error)
}

package quality

import (
	"github.com/sirupsen/logrus"
)

// Kind classifies a recovered input anomaly.
type Kind string

const (
	MalformedCategoryData Kind = "malformed_category_data"
	UnresolvedCategoryID  Kind = "unresolved_category_id"
	NonNumericMeasure     Kind = "non_numeric_measure"
)

// Summary is the per-run count of data-quality signals.
type Summary struct {
	MalformedCategoryData int `json:"malformed_category_data"`
	UnresolvedCategoryID  int `json:"unresolved_category_id"`
	NonNumericMeasure     int `json:"non_numeric_measure"`
}

// Total is the number of signals of any kind.
func (s Summary) Total() int {
	return s.MalformedCategoryData + s.UnresolvedCategoryID + s.NonNumericMeasure
}

// Tracker records data-quality signals for a single pipeline run. A nil
// Tracker discards signals.
type Tracker struct {
	log    *logrus.Entry
	counts map[Kind]int
}

func NewTracker(log *logrus.Entry) *Tracker {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = logrus.NewEntry(l)
	}
	return &Tracker{log: log.WithField("component", "quality"), counts: map[Kind]int{}}
}

// Signal records one event. fields are attached to the debug log line.
func (t *Tracker) Signal(kind Kind, fields logrus.Fields) {
	if t == nil {
		return
	}
	t.counts[kind]++
	t.log.WithFields(fields).WithField("kind", string(kind)).Debug("data quality signal")
}

func (t *Tracker) Count(kind Kind) int {
	if t == nil {
		return 0
	}
	return t.counts[kind]
}

func (t *Tracker) Summary() Summary {
	return Summary{
		MalformedCategoryData: t.Count(MalformedCategoryData),
		UnresolvedCategoryID:  t.Count(UnresolvedCategoryID),
		NonNumericMeasure:     t.Count(NonNumericMeasure),
	}
}

// Flush logs the run totals once at warn level when anything was recovered.
func (t *Tracker) Flush() Summary {
	s := t.Summary()
	if t != nil && s.Total() > 0 {
		t.log.WithFields(logrus.Fields{
			"malformed":   s.MalformedCategoryData,
			"unresolved":  s.UnresolvedCategoryID,
			"non_numeric": s.NonNumericMeasure,
		}).Warn("recovered data quality issues")
	}
	return s
}

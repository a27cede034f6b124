package main

import (
	"os"

	"github.com/gocarina/gocsv"
)

// evalRecord is one row of optimize_log.csv. Parameter columns follow
// NewParamVector order.
type evalRecord struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	Coverage    float64 `csv:"q_coverage"`
	Motion      float64 `csv:"q_motion"`
	Circulation float64 `csv:"q_circulation"`
	Overflow    float64 `csv:"q_overflow"`
	Gravity     float64 `csv:"gravity"`
	Buoyancy    float64 `csv:"buoyancy"`
	FieldLift   float64 `csv:"field_lift"`
	Cohesion    float64 `csv:"cohesion"`
	Viscosity   float64 `csv:"viscosity"`
	SideForce   float64 `csv:"side_force"`
	Diffusion   float64 `csv:"diffusion"`
	Exchange    float64 `csv:"exchange"`
}

func newEvalRecord(eval int, fitness float64, q Quality, v []float64) evalRecord {
	return evalRecord{
		Eval:        eval,
		Fitness:     fitness,
		Coverage:    q.Coverage,
		Motion:      q.Motion,
		Circulation: q.Circulation,
		Overflow:    q.Overflow,
		Gravity:     v[0],
		Buoyancy:    v[1],
		FieldLift:   v[2],
		Cohesion:    v[3],
		Viscosity:   v[4],
		SideForce:   v[5],
		Diffusion:   v[6],
		Exchange:    v[7],
	}
}

// evalLog appends evaluation rows to a CSV file, writing the header once.
type evalLog struct {
	f             *os.File
	headerWritten bool
}

func createEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &evalLog{f: f}, nil
}

// Append writes one row.
func (l *evalLog) Append(r evalRecord) error {
	rows := []evalRecord{r}
	if l.headerWritten {
		return gocsv.MarshalWithoutHeaders(&rows, l.f)
	}
	l.headerWritten = true
	return gocsv.Marshal(&rows, l.f)
}

func (l *evalLog) Close() error {
	return l.f.Close()
}

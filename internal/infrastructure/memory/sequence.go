package memory

import (
	"context"
	"sync/atomic"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
)

// SequenceGenerator はプロセス内カウンタで採番する
// 払い出し回数を原子的に数え、設定から n 番目の値を求める
type SequenceGenerator struct {
	settings map[sequence.Domain]sequence.Settings
	issued   map[sequence.Domain]*atomic.Int64
}

// NewSequenceGenerator は新しい SequenceGenerator を作成する
func NewSequenceGenerator(settings map[sequence.Domain]sequence.Settings) (*SequenceGenerator, error) {
	g := &SequenceGenerator{
		settings: make(map[sequence.Domain]sequence.Settings, len(settings)),
		issued:   make(map[sequence.Domain]*atomic.Int64, len(settings)),
	}
	for d, s := range settings {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		g.settings[d] = s
		g.issued[d] = new(atomic.Int64)
	}
	return g, nil
}

func (g *SequenceGenerator) Next(ctx context.Context, d sequence.Domain) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	counter, ok := g.issued[d]
	if !ok {
		return 0, sequence.ErrUnknownDomain
	}
	return g.settings[d].Nth(counter.Add(1))
}

var _ sequence.Generator = (*SequenceGenerator)(nil)

// Package memory はプロセス内で完結するストレージ実装
// ローカル開発とテストで PostgreSQL の代わりに使う
package memory

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
)

// seatCounter は上映1件分の残席カウンタ
// 上映の静的情報はロック下で読み、残席だけを CAS で更新する
// pending は未確定のトランザクションが持つ確保数
type seatCounter struct {
	performance performance.Performance
	available   atomic.Int64
	pending     atomic.Int64
}

// Database はインメモリのストア
type Database struct {
	mu           sync.RWMutex
	users        map[string]*user.User
	theatres     map[int64]*performance.Theatre
	movies       map[int64]*performance.Movie
	performances map[int64]*seatCounter
	reservations map[int64]*reservation.Reservation // 予約番号 -> 予約

	lastReservationID atomic.Int64
}

// NewDatabase は空のストアを作成する
func NewDatabase() *Database {
	return &Database{
		users:        make(map[string]*user.User),
		theatres:     make(map[int64]*performance.Theatre),
		movies:       make(map[int64]*performance.Movie),
		performances: make(map[int64]*seatCounter),
		reservations: make(map[int64]*reservation.Reservation),
	}
}

// Seed はカタログを投入する。既存の同一IDは上書きする
func (d *Database) Seed(c *Catalog) error {
	for _, p := range c.Performances {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range c.Theatres {
		copied := *t
		d.theatres[t.ID] = &copied
	}
	for _, m := range c.Movies {
		copied := *m
		d.movies[m.ID] = &copied
	}
	for _, p := range c.Performances {
		counter := &seatCounter{performance: *p}
		counter.available.Store(int64(p.AvailableSeats))
		d.performances[p.ID] = counter
	}
	return nil
}

// counter は上映の残席カウンタを返す
func (d *Database) counter(performanceID int64) (*seatCounter, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.performances[performanceID]
	return c, ok
}

// snapshot は残席を反映した上映のコピーを返す
func (c *seatCounter) snapshot() *performance.Performance {
	p := c.performance
	p.AvailableSeats = int(c.available.Load())
	return &p
}

// sortedPerformanceIDs は上映IDを昇順で返す。呼び出し側で読み取りロックを取ること
func (d *Database) sortedPerformanceIDs() []int64 {
	ids := make([]int64, 0, len(d.performances))
	for id := range d.performances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

package performance

import "time"

// Theatre は劇場（収容数を持つ会場）を表す
type Theatre struct {
	ID         int64
	Name       string
	Location   string
	TotalSeats int
}

// Movie は上映作品を表す
type Movie struct {
	ID          int64
	Name        string
	ReleaseDate time.Time
	Genre       string
}

// Performance は劇場×作品の1回の上映を表す
// AvailableSeats は台帳上の残席数で、0 <= AvailableSeats <= TotalSeats を常に満たす
type Performance struct {
	ID             int64
	TheatreID      int64
	MovieID        int64
	ShowDate       time.Time
	ShowTime       time.Time
	AvailableSeats int
	TotalSeats     int
}

// NewPerformance は劇場の収容数で残席を初期化した上映を作成する
func NewPerformance(id int64, theatre *Theatre, movieID int64, showDate, showTime time.Time) *Performance {
	return &Performance{
		ID:             id,
		TheatreID:      theatre.ID,
		MovieID:        movieID,
		ShowDate:       showDate,
		ShowTime:       showTime,
		AvailableSeats: theatre.TotalSeats,
		TotalSeats:     theatre.TotalSeats,
	}
}

// HasAvailableSeats は残席があるかを返す
func (p *Performance) HasAvailableSeats() bool {
	return p.AvailableSeats > 0
}

// ReservedSeats は予約済みの席数を返す
func (p *Performance) ReservedSeats() int {
	return p.TotalSeats - p.AvailableSeats
}

// Validate は上映の検証を行う
func (p *Performance) Validate() error {
	if p.TheatreID == 0 {
		return ErrTheatreIDRequired
	}
	if p.MovieID == 0 {
		return ErrMovieIDRequired
	}
	if p.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	if p.AvailableSeats < 0 || p.AvailableSeats > p.TotalSeats {
		return ErrInvalidAvailableSeats
	}
	return nil
}

// Listing は作品名検索の結果1件（劇場名・上映ID・残席数）
type Listing struct {
	TheatreName    string
	PerformanceID  int64
	AvailableSeats int
}

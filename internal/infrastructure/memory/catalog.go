package memory

import (
	"time"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
)

// Catalog は投入用のカタログデータ
type Catalog struct {
	Theatres     []*performance.Theatre
	Movies       []*performance.Movie
	Performances []*performance.Performance
}

// DemoCatalog は migrations/000002_seed_catalog と同じデモ用カタログを返す
func DemoCatalog() *Catalog {
	theatres := []*performance.Theatre{
		{ID: 101, Name: "PVR", Location: "City Center", TotalSeats: 100},
		{ID: 102, Name: "INOX SUPER", Location: "Downtown Plaza", TotalSeats: 200},
		{ID: 103, Name: "LUXE Cinemas", Location: "Suburb Square", TotalSeats: 250},
	}
	byID := make(map[int64]*performance.Theatre, len(theatres))
	for _, t := range theatres {
		byID[t.ID] = t
	}

	movies := []*performance.Movie{
		{ID: 1, Name: "Inception", ReleaseDate: date(2010, 7, 16), Genre: "Sci-Fi"},
		{ID: 2, Name: "The Dark Knight", ReleaseDate: date(2008, 7, 18), Genre: "Action"},
		{ID: 3, Name: "Titanic", ReleaseDate: date(1997, 12, 19), Genre: "Romance"},
		{ID: 4, Name: "Ice Age", ReleaseDate: date(2000, 12, 19), Genre: "Fantasy"},
		{ID: 5, Name: "Harry Potter", ReleaseDate: date(2001, 12, 19), Genre: "Sci-Fi"},
	}

	show := func(id, movieID, theatreID int64, day, hour, minute int) *performance.Performance {
		showDate := date(2023, 1, day)
		showTime := showDate.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
		return performance.NewPerformance(id, byID[theatreID], movieID, showDate, showTime)
	}

	return &Catalog{
		Theatres: theatres,
		Movies:   movies,
		Performances: []*performance.Performance{
			show(1001, 1, 101, 1, 18, 0),
			show(1002, 2, 102, 2, 15, 30),
			show(1003, 3, 103, 3, 20, 0),
			show(1004, 2, 101, 3, 15, 30),
			show(1005, 4, 103, 3, 18, 0),
			show(1006, 1, 102, 3, 20, 0),
			show(1007, 5, 101, 3, 21, 0),
		},
	}
}

// NewDemoDatabase はデモ用カタログを投入済みのストアを作成する
func NewDemoDatabase() *Database {
	db := NewDatabase()
	// DemoCatalog は常に検証を通る
	_ = db.Seed(DemoCatalog())
	return db
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

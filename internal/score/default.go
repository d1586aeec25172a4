package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

type DefaultScorer struct {
	db *sql.DB
}

type HitsCompact struct {
	Lane        rune
	Occurrences []uint64
	Errors      []int64
}

func compactHits(hits []Hit) []HitsCompact {
	index := map[rune]int{}
	ins := []HitsCompact{}
	for _, h := range hits {
		i, ok := index[h.Lane]
		if !ok {
			i = len(ins)
			index[h.Lane] = i
			ins = append(ins, HitsCompact{Lane: h.Lane})
		}
		ins[i].Occurrences = append(ins[i].Occurrences, h.Occurrence)
		ins[i].Errors = append(ins[i].Errors, h.ErrorMs)
	}
	return ins
}

func uncompactHits(compact []HitsCompact) []Hit {
	hits := []Hit{}
	for _, c := range compact {
		for i, occ := range c.Occurrences {
			hits = append(hits, Hit{Lane: c.Lane, Occurrence: occ, ErrorMs: c.Errors[i]})
		}
	}
	return hits
}

// SessionSum identifies a grid and lane setup, so histories are only
// compared against the same rhythm.
func SessionSum(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *DefaultScorer) Init() error {
	db, err := sql.Open("sqlite3", "./sessions.db")
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists sessions
	  (
		  id integer not null primary key,
		  sum text,
		  hits bytearray
	  );
	`
	_, err = db.Exec(initStatement)
	if err != nil {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *DefaultScorer) Save(sum string, hits []Hit) {
	data, err := json.Marshal(compactHits(hits))
	if err != nil {
		log.Println("unable to marshal hits", err)
		return
	}
	_, err = s.db.Exec("insert into sessions(sum, hits) values(?, ?)", sum, data)
	if err != nil {
		log.Println("unable to save session", err)
		return
	}
}

func (s *DefaultScorer) Load(sum string) []History {
	histories := []History{}
	rows, err := s.db.Query("select sum, hits from sessions where sum = ?", sum)
	if err != nil && err != sql.ErrNoRows {
		log.Println("unable to load sessions", err)
		return histories
	}
	defer rows.Close()
	for rows.Next() {
		var gotSum string
		var data []byte
		rows.Scan(&gotSum, &data)
		var compact []HitsCompact
		if err := json.Unmarshal(data, &compact); err != nil {
			log.Println("unable to unmarshal hit history")
			continue
		}
		histories = append(histories, History{
			Sum:  gotSum,
			Hits: uncompactHits(compact),
		})
	}
	return histories
}

func (s *DefaultScorer) Score(history *History) Summary {
	var sum Summary
	for _, h := range history.Hits {
		e := h.ErrorMs
		if e < 0 {
			e = -e
		}
		sum.HitCount++
		sum.TotalErrorMs += e
	}
	return sum
}

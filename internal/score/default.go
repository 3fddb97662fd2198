package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"log"
	"math"

	"git.lost.host/meutraa/midfall/internal/engine"
	"git.lost.host/meutraa/midfall/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultScorer struct {
	db *sql.DB
}

func (s *DefaultScorer) Init() error {
	db, err := sql.Open("sqlite3", "./scores.db")
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists results
	  (
		  id integer not null primary key,
		  sum text,
		  difficulty text,
		  rate real,
		  score integer,
		  accuracy real,
		  max_combo integer,
		  counts text
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

// HashChart identifies a chart by its note content, so edits to the source
// file orphan old results rather than mixing incomparable runs.
func HashChart(c *game.Chart) string {
	h := sha256.New()
	var buf [8]byte
	for i := range c.Notes {
		n := &c.Notes[i]
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(n.Time))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(n.EndTime))
		h.Write(buf[:])
		h.Write([]byte{byte(n.Lane), byte(n.Type), n.Pitch, n.Velocity})
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *DefaultScorer) Save(c *game.Chart, result engine.TrackCompleteEvent, rate float64) {
	counts, err := json.Marshal(result.Counts)
	if nil != err {
		log.Println("unable to marshal judgment counts", err)
		return
	}
	_, err = s.db.Exec(
		"insert into results(sum, difficulty, rate, score, accuracy, max_combo, counts) values(?, ?, ?, ?, ?, ?, ?)",
		HashChart(c), c.Difficulty.Name, rate, result.Score, result.Accuracy, result.MaxCombo, counts)
	if nil != err {
		log.Println("unable to save result", err)
		return
	}
}

func (s *DefaultScorer) Load(c *game.Chart) []History {
	histories := []History{}
	rows, err := s.db.Query(
		"select sum, rate, score, accuracy, max_combo, counts from results where sum = ?",
		HashChart(c))
	if nil != err && err != sql.ErrNoRows {
		log.Println("unable to load results", err)
		return histories
	}
	defer rows.Close()
	for rows.Next() {
		var h History
		var counts []byte
		rows.Scan(&h.Sum, &h.Rate, &h.Score, &h.Accuracy, &h.MaxCombo, &counts)
		if err := json.Unmarshal(counts, &h.Counts); nil != err {
			log.Println("unable to unmarshal judgment counts")
			continue
		}
		histories = append(histories, h)
	}
	return histories
}

package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"time"

	"git.lost.host/meutraa/vsrg/internal/game"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Store is a Scorer backed by sqlite.
type Store struct {
	db *sql.DB
}

var _ Scorer = (*Store)(nil)

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %v", path)
	}

	initStatement := `
	create table if not exists scores
	  (
		  id integer not null primary key,
		  sum text not null,
		  rate real,
		  played integer,
		  counts text,
		  mean real,
		  stdev real,
		  accuracy real,
		  max_combo integer
	  );
	create index if not exists scores_sum on scores(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to create scores table")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) hashChart(c *game.Chart) string {
	sum := sha256.Sum256([]byte(c.Difficulty.Section))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *Store) Save(c *game.Chart, r Result) error {
	counts, err := json.Marshal(r.Counts)
	if nil != err {
		return errors.Wrap(err, "unable to marshal counts")
	}
	if r.Played.IsZero() {
		r.Played = time.Now()
	}
	_, err = s.db.Exec(
		"insert into scores(sum, rate, played, counts, mean, stdev, accuracy, max_combo) values(?, ?, ?, ?, ?, ?, ?, ?)",
		s.hashChart(c), r.Rate, r.Played.UnixNano(), string(counts), r.Mean, r.Stdev, r.Accuracy, r.MaxCombo,
	)
	return errors.Wrap(err, "unable to save score")
}

func (s *Store) Load(c *game.Chart) ([]Result, error) {
	rows, err := s.db.Query(
		"select rate, played, counts, mean, stdev, accuracy, max_combo from scores where sum = ? order by played desc, id desc",
		s.hashChart(c),
	)
	if nil != err {
		return nil, errors.Wrap(err, "unable to load scores")
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var r Result
		var played int64
		var counts string
		if err := rows.Scan(&r.Rate, &played, &counts, &r.Mean, &r.Stdev, &r.Accuracy, &r.MaxCombo); nil != err {
			return nil, errors.Wrap(err, "unable to scan score")
		}
		if err := json.Unmarshal([]byte(counts), &r.Counts); nil != err {
			return nil, errors.Wrap(err, "unable to unmarshal counts")
		}
		r.Played = time.Unix(0, played)
		results = append(results, r)
	}
	return results, errors.Wrap(rows.Err(), "unable to read scores")
}

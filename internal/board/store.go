package board

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/rating"
)

// New creates a new BoardStore.
func New(db *sql.DB) BoardStore {
	return &store{
		db: db,
	}
}

const selectPlayers = `
	SELECT id, name, roblox_link, position, rank_label, stars, points, percentage
	FROM players
	WHERE board = ?
	ORDER BY position IS NOT NULL, position, points DESC, created_at`

func checkKind(kind leaderboard.Kind) error {
	if _, ok := leaderboard.ParseKind(string(kind)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBoard, kind)
	}
	return nil
}

// score validates the rating that matters for the board and returns the
// derived points and percentage.
func score(kind leaderboard.Kind, p leaderboard.Player) (points, percentage float64, err error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, 0, ErrEmptyName
	}
	switch kind {
	case leaderboard.Classic:
		pts, ok := rating.RankPoints(p.Rank)
		if !ok {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRank, p.Rank)
		}
		points = float64(pts)
		return points, rating.Percentage(points, rating.MaxRankPoints), nil
	case leaderboard.FFA:
		pts, ok := rating.StarPoints(p.Stars)
		if !ok {
			return 0, 0, fmt.Errorf("%w: %v", ErrInvalidStars, p.Stars)
		}
		return pts, rating.Percentage(pts, rating.MaxStarPoints), nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrUnknownBoard, kind)
}

// ratingColumns returns the rank and stars column values for a board; the
// rating of the other board stays NULL.
func ratingColumns(kind leaderboard.Kind, p leaderboard.Player) (rank sql.NullString, stars sql.NullFloat64) {
	if kind == leaderboard.Classic {
		return sql.NullString{String: p.Rank, Valid: true}, stars
	}
	return rank, sql.NullFloat64{Float64: p.Stars, Valid: true}
}

func nullPosition(pos int) sql.NullInt64 {
	if pos <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(pos), Valid: true}
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// scanPlayer is a helper function to scan a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (Player, error) {
	var (
		p        Player
		position sql.NullInt64
		rank     sql.NullString
		stars    sql.NullFloat64
	)
	err := scanner.Scan(&p.ID, &p.Name, &p.RobloxLink, &position, &rank, &stars, &p.Points, &p.Percentage)
	if err != nil {
		return Player{}, err
	}
	p.Position = int(position.Int64)
	p.Rank = rank.String
	p.Stars = stars.Float64
	return p, nil
}

func listPlayers(q querier, kind leaderboard.Kind) ([]Player, error) {
	rows, err := q.Query(selectPlayers, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err, "board", kind)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func nameExists(q querier, kind leaderboard.Kind, name string) (bool, error) {
	var exists bool
	err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM players WHERE board = ? AND name = ?)`, kind, name).Scan(&exists)
	return exists, err
}

// GetPlayers returns the board in display order: players without a stored
// position first, then by position, then by points descending.
func (s *store) GetPlayers(kind leaderboard.Kind) ([]Player, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listPlayers(s.db, kind)
}

// AddPlayer validates and inserts a player. A supplied position moves every
// player at or after it down by one.
func (s *store) AddPlayer(kind leaderboard.Kind, p leaderboard.Player) (Player, error) {
	if err := checkKind(kind); err != nil {
		return Player{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	points, pct, err := score(kind, p)
	if err != nil {
		return Player{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return Player{}, err
	}
	defer tx.Rollback()

	exists, err := nameExists(tx, kind, p.Name)
	if err != nil {
		return Player{}, err
	}
	if exists {
		return Player{}, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
	}

	if p.Position > 0 {
		_, err = tx.Exec(`UPDATE players SET position = position + 1 WHERE board = ? AND position >= ?`, kind, p.Position)
		if err != nil {
			return Player{}, err
		}
	}

	row := Player{ID: uuid.NewString(), Player: p, Points: points, Percentage: pct}
	rank, stars := ratingColumns(kind, p)
	_, err = tx.Exec(`
		INSERT INTO players (id, board, name, rank_label, stars, points, percentage, roblox_link, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, kind, p.Name, rank, stars, points, pct, p.RobloxLink, nullPosition(p.Position), time.Now().UnixNano())
	if err != nil {
		return Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return Player{}, err
	}
	log.Debug("Added player", "board", kind, "name", p.Name, "position", p.Position)
	return row, nil
}

// UpdatePlayer renames and re-rates the player stored as oldName. A position
// of zero keeps the stored one; a different position closes the old gap and
// opens a new one.
func (s *store) UpdatePlayer(kind leaderboard.Kind, oldName string, p leaderboard.Player) (Player, error) {
	if err := checkKind(kind); err != nil {
		return Player{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	points, pct, err := score(kind, p)
	if err != nil {
		return Player{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return Player{}, err
	}
	defer tx.Rollback()

	var (
		id      string
		current sql.NullInt64
	)
	err = tx.QueryRow(`SELECT id, position FROM players WHERE board = ? AND name = ?`, kind, oldName).Scan(&id, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, oldName)
	}
	if err != nil {
		return Player{}, err
	}

	if p.Name != oldName {
		exists, err := nameExists(tx, kind, p.Name)
		if err != nil {
			return Player{}, err
		}
		if exists {
			return Player{}, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
	}

	position := current
	if p.Position > 0 && (!current.Valid || int64(p.Position) != current.Int64) {
		if current.Valid {
			_, err = tx.Exec(`UPDATE players SET position = position - 1 WHERE board = ? AND position > ? AND id != ?`, kind, current.Int64, id)
			if err != nil {
				return Player{}, err
			}
		}
		_, err = tx.Exec(`UPDATE players SET position = position + 1 WHERE board = ? AND position >= ? AND id != ?`, kind, p.Position, id)
		if err != nil {
			return Player{}, err
		}
		position = nullPosition(p.Position)
	}

	rank, stars := ratingColumns(kind, p)
	_, err = tx.Exec(`
		UPDATE players
		SET name = ?, rank_label = ?, stars = ?, points = ?, percentage = ?, roblox_link = ?, position = ?
		WHERE id = ?`,
		p.Name, rank, stars, points, pct, p.RobloxLink, position, id)
	if err != nil {
		return Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return Player{}, err
	}

	p.Position = int(position.Int64)
	return Player{ID: id, Player: p, Points: points, Percentage: pct}, nil
}

// RemovePlayer deletes a player and moves everyone after them up one place.
func (s *store) RemovePlayer(kind leaderboard.Kind, name string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position sql.NullInt64
	err = tx.QueryRow(`SELECT position FROM players WHERE board = ? AND name = ?`, kind, name).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM players WHERE board = ? AND name = ?`, kind, name); err != nil {
		return err
	}
	if position.Valid {
		_, err = tx.Exec(`UPDATE players SET position = position - 1 WHERE board = ? AND position > ?`, kind, position.Int64)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SwapPositions exchanges the places of two players. A player without a
// stored position takes part with their current display place.
func (s *store) SwapPositions(kind leaderboard.Kind, name1, name2 string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	players, err := listPlayers(tx, kind)
	if err != nil {
		return err
	}
	place := func(name string) (string, int, error) {
		for i, p := range players {
			if p.Name == name {
				if p.Position > 0 {
					return p.ID, p.Position, nil
				}
				return p.ID, i + 1, nil
			}
		}
		return "", 0, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	id1, pos1, err := place(name1)
	if err != nil {
		return err
	}
	id2, pos2, err := place(name2)
	if err != nil {
		return err
	}
	if id1 == id2 {
		return nil
	}

	if _, err := tx.Exec(`UPDATE players SET position = ? WHERE id = ?`, pos2, id1); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE players SET position = ? WHERE id = ?`, pos1, id2); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteAll empties a board and returns how many players were removed.
func (s *store) DeleteAll(kind leaderboard.Kind) (int, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM players WHERE board = ?`, kind)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Info("Deleted all players", "board", kind, "count", n)
	return int(n), nil
}

// ReplaceAll swaps the whole board for the given players in one transaction.
// Players with an invalid rating or a name already seen in the batch are
// skipped and counted.
func (s *store) ReplaceAll(kind leaderboard.Kind, players []leaderboard.Player) (ReplaceResult, error) {
	if err := checkKind(kind); err != nil {
		return ReplaceResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return ReplaceResult{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM players WHERE board = ?`, kind); err != nil {
		return ReplaceResult{}, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO players (id, board, name, rank_label, stars, points, percentage, roblox_link, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(board, name) DO NOTHING`)
	if err != nil {
		return ReplaceResult{}, err
	}
	defer stmt.Close()

	var result ReplaceResult
	base := time.Now().UnixNano()
	for i, p := range players {
		p.Name = strings.TrimSpace(p.Name)
		points, pct, err := score(kind, p)
		if err != nil {
			log.Warn("Skipping player on import", "board", kind, "name", p.Name, "error", err)
			result.Skipped++
			continue
		}
		rank, stars := ratingColumns(kind, p)
		res, err := stmt.Exec(uuid.NewString(), kind, p.Name, rank, stars, points, pct, p.RobloxLink, nullPosition(p.Position), base+int64(i))
		if err != nil {
			return ReplaceResult{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			log.Warn("Skipping duplicate player on import", "board", kind, "name", p.Name)
			result.Skipped++
			continue
		}
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		return ReplaceResult{}, err
	}
	log.Info("Replaced board", "board", kind, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// RecordExport appends an entry to the export history.
func (s *store) RecordExport(kind leaderboard.Kind, messages, dropped int, published bool) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO exports (id, board, message_count, dropped, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), kind, messages, dropped, published, time.Now().UnixNano())
	return err
}

// RecentExports returns the newest export records of a board first.
func (s *store) RecentExports(kind leaderboard.Kind, limit int) ([]ExportRecord, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, board, message_count, dropped, published, created_at
		FROM exports
		WHERE board = ?
		ORDER BY created_at DESC
		LIMIT ?`, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]ExportRecord, 0)
	for rows.Next() {
		var r ExportRecord
		if err := rows.Scan(&r.ID, &r.Board, &r.Messages, &r.Dropped, &r.Published, &r.CreatedAt); err != nil {
			log.Error("Failed to scan export row", "error", err)
			continue
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mmuslimabdulj/roomchat/internal/domain"
)

// Key layout:
//
//	room:<id>          -> domain.Room
//	roomtitle:<title>  -> id
//	user:<id>          -> domain.User
//	username:<name>    -> id
//	seq:room, seq:user -> badger sequences
const (
	roomPrefix      = "room:"
	roomTitlePrefix = "roomtitle:"
	userPrefix      = "user:"
	usernamePrefix  = "username:"

	seqBandwidth = 100
	maxRetries   = 5
)

// RoomDirectory is the durable room id -> room metadata mapping
type RoomDirectory interface {
	CreateRoom(ctx context.Context, title string) (*domain.Room, error)
	GetRoom(ctx context.Context, id uint64) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
}

// UserStore persists accounts and their current room assignment
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
	GetUser(ctx context.Context, id uint64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	AssignRoom(ctx context.Context, userID, roomID uint64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Store implements RoomDirectory and UserStore on top of BadgerDB
type Store struct {
	db      *badger.DB
	roomSeq *badger.Sequence
	userSeq *badger.Sequence
	logger  *slog.Logger
}

var (
	_ RoomDirectory = (*Store)(nil)
	_ UserStore     = (*Store)(nil)
)

// Options selects where the database lives
type Options struct {
	Path     string
	InMemory bool
}

// Open opens (or creates) the badger database and its id sequences
func Open(opts Options, logger *slog.Logger) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	s, err := New(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already opened database
func New(db *badger.DB, logger *slog.Logger) (*Store, error) {
	roomSeq, err := db.GetSequence([]byte("seq:room"), seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("room sequence: %w", err)
	}
	userSeq, err := db.GetSequence([]byte("seq:user"), seqBandwidth)
	if err != nil {
		_ = roomSeq.Release()
		return nil, fmt.Errorf("user sequence: %w", err)
	}
	return &Store{
		db:      db,
		roomSeq: roomSeq,
		userSeq: userSeq,
		logger:  logger.With("component", "storage"),
	}, nil
}

// Close releases leased ids and closes the database
func (s *Store) Close() error {
	return errors.Join(s.roomSeq.Release(), s.userSeq.Release(), s.db.Close())
}

// CreateRoom stores a new room, enforcing title uniqueness
func (s *Store) CreateRoom(ctx context.Context, title string) (*domain.Room, error) {
	next, err := s.roomSeq.Next()
	if err != nil {
		return nil, fmt.Errorf("next room id: %w", err)
	}
	// Badger sequences start at zero; room ids start at one.
	room := &domain.Room{ID: next + 1, Title: title, CreatedAt: time.Now().UTC()}
	data, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("marshal room: %w", err)
	}

	err = s.update(ctx, func(txn *badger.Txn) error {
		titleKey := []byte(roomTitlePrefix + title)
		if _, err := txn.Get(titleKey); err == nil {
			return domain.ErrDuplicateTitle
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(titleKey, idBytes(room.ID)); err != nil {
			return err
		}
		return txn.Set(roomKey(room.ID), data)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("room created", "room_id", room.ID, "title", room.Title)
	return room, nil
}

// GetRoom returns domain.ErrRoomNotFound for unknown ids
func (s *Store) GetRoom(ctx context.Context, id uint64) (*domain.Room, error) {
	var room domain.Room
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, roomKey(id), &room)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room %d: %w", id, err)
	}
	return &room, nil
}

// ListRooms returns every room ordered by id
func (s *Store) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rooms := make([]domain.Room, 0)
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scan(txn, roomPrefix, func(val []byte) error {
			var r domain.Room
			if err := json.Unmarshal(val, &r); err != nil {
				return err
			}
			rooms = append(rooms, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// CreateUser stores a new account, enforcing username uniqueness
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	next, err := s.userSeq.Next()
	if err != nil {
		return nil, fmt.Errorf("next user id: %w", err)
	}
	user := &domain.User{ID: next + 1, Username: username, PasswordHash: passwordHash}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}

	err = s.update(ctx, func(txn *badger.Txn) error {
		nameKey := []byte(usernamePrefix + username)
		if _, err := txn.Get(nameKey); err == nil {
			return domain.ErrDuplicateUsername
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(nameKey, idBytes(user.ID)); err != nil {
			return err
		}
		return txn.Set(userKey(user.ID), data)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// GetUser returns domain.ErrUserNotFound for unknown ids
func (s *Store) GetUser(ctx context.Context, id uint64) (*domain.User, error) {
	var user domain.User
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername looks a user up through the username index
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(usernamePrefix + username))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		return getJSON(txn, userKey(id), &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return &user, nil
}

// AssignRoom records roomID as the user's current room.
// The room must exist.
func (s *Store) AssignRoom(ctx context.Context, userID, roomID uint64) (*domain.User, error) {
	var user domain.User
	err := s.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(roomKey(roomID)); errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrRoomNotFound
		} else if err != nil {
			return err
		}
		if err := getJSON(txn, userKey(userID), &user); errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrUserNotFound
		} else if err != nil {
			return err
		}
		user.RoomID = &roomID
		data, err := json.Marshal(&user)
		if err != nil {
			return err
		}
		return txn.Set(userKey(userID), data)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account ordered by id
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scan(txn, userPrefix, func(val []byte) error {
			var u domain.User
			if err := json.Unmarshal(val, &u); err != nil {
				return err
			}
			users = append(users, u)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// update runs fn in a read-write transaction, retrying on write conflicts
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.logger.Debug("transaction conflict, retrying", "attempt", attempt+1)
	}
	return err
}

func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func scan(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// Ids are zero padded so that key order matches numeric order.
func roomKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", roomPrefix, id))
}

func userKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", userPrefix, id))
}

func idBytes(id uint64) []byte {
	return []byte(strconv.FormatUint(id, 10))
}

func parseID(b []byte) (uint64, error) {
	return strconv.ParseUint(string(b), 10, 64)
}

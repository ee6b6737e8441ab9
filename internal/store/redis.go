package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"pkt.systems/gamelaunch/schema"
)

// Redis is the store backend for deployments where several launcher hosts
// share one record store.
type Redis struct {
	client *redis.Client
}

// OpenRedis connects to the Redis instance at url and verifies the
// connection.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client}, nil
}

// NewRedisWithClient wraps an existing client (for testing).
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

var _ Store = (*Redis)(nil)

type redisUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Email        string `json:"email"`
}

type redisPlaying struct {
	UserID int64     `json:"user_id"`
	Since  time.Time `json:"since"`
}

type redisLogin struct {
	Username string    `json:"username"`
	Success  bool      `json:"success"`
	Client   string    `json:"client"`
	At       time.Time `json:"at"`
}

func (r *Redis) FindUserByUsername(ctx context.Context, username string) (schema.User, error) {
	idStr, err := r.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return schema.User{}, schema.ErrUserNotFound
		}
		return schema.User{}, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return schema.User{}, err
	}
	return r.FindUserByID(ctx, schema.UserID(id))
}

func (r *Redis) FindUserByID(ctx context.Context, id schema.UserID) (schema.User, error) {
	data, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return schema.User{}, schema.ErrUserNotFound
		}
		return schema.User{}, err
	}
	var row redisUser
	if err := json.Unmarshal(data, &row); err != nil {
		return schema.User{}, err
	}
	return userFromRedis(row), nil
}

func (r *Redis) CreateUser(ctx context.Context, user schema.User) (schema.User, error) {
	id, err := r.client.Incr(ctx, userSeqKey()).Result()
	if err != nil {
		return schema.User{}, err
	}

	// The username index is the uniqueness constraint: first writer wins.
	ok, err := r.client.SetNX(ctx, usernameIndexKey(user.Username), id, 0).Result()
	if err != nil {
		return schema.User{}, err
	}
	if !ok {
		return schema.User{}, schema.ErrDuplicateUsername
	}

	row := redisUser{
		ID:           id,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Email:        user.Email,
	}
	data, err := json.Marshal(row)
	if err != nil {
		return schema.User{}, err
	}
	if err := r.client.Set(ctx, userKey(schema.UserID(id)), data, 0).Err(); err != nil {
		return schema.User{}, err
	}
	if err := r.client.SAdd(ctx, usersIndexKey(), id).Err(); err != nil {
		return schema.User{}, err
	}
	return userFromRedis(row), nil
}

func (r *Redis) UpdateUser(ctx context.Context, user schema.User) error {
	existing, err := r.FindUserByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if existing.Username != user.Username {
		ok, err := r.client.SetNX(ctx, usernameIndexKey(user.Username), int64(user.ID), 0).Result()
		if err != nil {
			return err
		}
		if !ok {
			return schema.ErrDuplicateUsername
		}
		if err := r.client.Del(ctx, usernameIndexKey(existing.Username)).Err(); err != nil {
			return err
		}
	}

	row := redisUser{
		ID:           int64(user.ID),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Email:        user.Email,
	}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, userKey(user.ID), data, 0).Err()
}

func (r *Redis) DeleteUser(ctx context.Context, username string) error {
	user, err := r.FindUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Del(ctx, userKey(user.ID))
	pipe.Del(ctx, usernameIndexKey(user.Username))
	pipe.SRem(ctx, usersIndexKey(), int64(user.ID))
	pipe.Del(ctx, playingKey(user.ID))
	pipe.SRem(ctx, playingIndexKey(), int64(user.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) ListUsers(ctx context.Context) ([]schema.User, error) {
	ids, err := r.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	users := make([]schema.User, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		user, err := r.FindUserByID(ctx, schema.UserID(id))
		if err != nil {
			if errors.Is(err, schema.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r *Redis) AppendLoginAttempt(ctx context.Context, attempt schema.LoginAttempt) error {
	row := redisLogin{
		Username: attempt.Username,
		Success:  attempt.Success,
		Client:   attempt.ClientAddr,
		At:       attempt.At,
	}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, loginsKey(), data).Err()
}

func (r *Redis) ClaimPlaying(ctx context.Context, userID schema.UserID, since time.Time) error {
	row := redisPlaying{UserID: int64(userID), Since: since}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, playingKey(userID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return schema.ErrAlreadyPlaying
	}
	return r.client.SAdd(ctx, playingIndexKey(), int64(userID)).Err()
}

func (r *Redis) ReleasePlaying(ctx context.Context, userID schema.UserID) error {
	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, playingKey(userID))
	pipe.SRem(ctx, playingIndexKey(), int64(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if del.Val() == 0 {
		return schema.ErrNotPlaying
	}
	return nil
}

func (r *Redis) ListPlaying(ctx context.Context) ([]schema.PlayingUser, error) {
	ids, err := r.client.SMembers(ctx, playingIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	playing := make([]schema.PlayingUser, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		data, err := r.client.Get(ctx, playingKey(schema.UserID(id))).Bytes()
		if err != nil {
			// Claim may have been released since the index read.
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		var row redisPlaying
		if err := json.Unmarshal(data, &row); err != nil {
			continue
		}
		user, err := r.FindUserByID(ctx, schema.UserID(id))
		if err != nil {
			if errors.Is(err, schema.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		playing = append(playing, schema.PlayingUser{
			UserID:    schema.UserID(id),
			Username:  user.Username,
			StartedAt: row.Since,
		})
	}
	sort.Slice(playing, func(i, j int) bool {
		return playing[i].StartedAt.Before(playing[j].StartedAt)
	})
	return playing, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func userFromRedis(row redisUser) schema.User {
	return schema.User{
		ID:           schema.UserID(row.ID),
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Email:        row.Email,
	}
}

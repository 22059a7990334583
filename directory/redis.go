package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	authlink "github.com/ebbhq/authlink"
)

const redisCreateRetries = 4

var errRedisUnavailable = errors.New("directory redis unavailable")

// Redis stores one hash per user plus a set indexing all emails. It suits
// deployments that already run redis for the challenge store and want a
// single backend.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a redis-backed directory. prefix namespaces all keys,
// e.g. "alc" yields "alc:user:<email>" and "alc:users".
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
	}
}

func (r *Redis) userKey(email string) string {
	return r.prefix + ":user:" + email
}

func (r *Redis) indexKey() string {
	return r.prefix + ":users"
}

func (r *Redis) GetByEmail(ctx context.Context, email string) (*authlink.User, error) {
	fields, err := r.client.HGetAll(ctx, r.userKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	return &authlink.User{
		Email: email,
		Name:  fields["name"],
		Roles: authlink.DecodeRoles(fields["roles"]),
	}, nil
}

func (r *Redis) List(ctx context.Context) ([]authlink.User, error) {
	emails, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}

	users := make([]authlink.User, 0, len(emails))
	for _, email := range emails {
		user, err := r.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			// index entry without a hash, skip the orphan
			continue
		}
		users = append(users, *user)
	}

	return users, nil
}

func (r *Redis) Create(ctx context.Context, u authlink.User) (*authlink.User, error) {
	key := r.userKey(u.Email)
	roles := authlink.NewRoleSet(u.Roles...)

	for i := 0; i < redisCreateRetries; i++ {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			exists, err := tx.Exists(ctx, key).Result()
			if err != nil {
				return err
			}
			if exists > 0 {
				return authlink.ErrUserExists
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, "name", u.Name, "roles", authlink.EncodeRoles(roles))
				pipe.SAdd(ctx, r.indexKey(), u.Email)
				return nil
			})
			return err
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, authlink.ErrUserExists) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", errRedisUnavailable, err)
		}

		return &authlink.User{Email: u.Email, Name: u.Name, Roles: roles}, nil
	}

	return nil, fmt.Errorf("%w: create transaction retries exhausted", errRedisUnavailable)
}

func (r *Redis) Patch(ctx context.Context, email string, patch authlink.UserPatch) (*authlink.User, error) {
	key := r.userKey(email)
	var patched *authlink.User

	for i := 0; i < redisCreateRetries; i++ {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			fields, err := tx.HGetAll(ctx, key).Result()
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return authlink.ErrUserNotFound
			}

			user := authlink.User{
				Email: email,
				Name:  fields["name"],
				Roles: authlink.DecodeRoles(fields["roles"]),
			}
			if patch.Name != nil {
				user.Name = *patch.Name
			}
			if patch.Roles != nil {
				user.Roles = authlink.NewRoleSet(*patch.Roles...)
			}

			renamed := patch.Email != nil && *patch.Email != email
			if renamed {
				exists, err := tx.Exists(ctx, r.userKey(*patch.Email)).Result()
				if err != nil {
					return err
				}
				if exists > 0 {
					return authlink.ErrUserExists
				}
				user.Email = *patch.Email
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if renamed {
					pipe.Del(ctx, key)
					pipe.SRem(ctx, r.indexKey(), email)
					pipe.SAdd(ctx, r.indexKey(), user.Email)
				}
				pipe.HSet(ctx, r.userKey(user.Email), "name", user.Name, "roles", authlink.EncodeRoles(user.Roles))
				return nil
			})
			if err != nil {
				return err
			}

			patched = &user
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, authlink.ErrUserNotFound) || errors.Is(err, authlink.ErrUserExists) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", errRedisUnavailable, err)
		}

		return patched, nil
	}

	return nil, fmt.Errorf("%w: patch transaction retries exhausted", errRedisUnavailable)
}

func (r *Redis) Delete(ctx context.Context, email string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.userKey(email))
	pipe.SRem(ctx, r.indexKey(), email)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	if del.Val() == 0 {
		return authlink.ErrUserNotFound
	}

	return nil
}

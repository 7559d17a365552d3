package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/repository"
)

var _ repository.MarkerRepository = (*MarkerRepo)(nil)

// MarkerRepo persists the novelty marker as one JSON value under one key.
// Every write runs through a compare-and-set so concurrent runs cannot
// leapfrog each other.
type MarkerRepo struct {
	client *Client
	key    string
}

func NewMarkerRepo(client *Client, key string) *MarkerRepo {
	if key == "" {
		key = "recallbot:marker"
	}
	return &MarkerRepo{client: client, key: key}
}

func (r *MarkerRepo) Load(ctx context.Context) (*model.Marker, error) {
	data, err := r.client.Get(ctx, r.key)
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m model.Marker
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// luaAdvance swaps the marker only while it still holds the expected value.
// Returns 1 on success, 0 on a lost race.
var luaAdvance = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2])
	return 1
else
	return 0
end`)

func (r *MarkerRepo) Advance(ctx context.Context, prev, next *model.Marker) error {
	if next == nil {
		return domain.ErrInvalidArgument
	}
	nextData, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if prev == nil {
		// First-ever marker: the key must still be absent.
		ok, err := r.client.SetNX(ctx, r.key, nextData, 0)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrMarkerConflict
		}
		return nil
	}
	prevData, err := json.Marshal(prev)
	if err != nil {
		return err
	}
	n, err := luaAdvance.Run(ctx, r.client.cli, []string{r.key}, string(prevData), string(nextData)).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrMarkerConflict
	}
	return nil
}

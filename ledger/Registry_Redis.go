package ledger

import "log"
import "strconv"
import "time"

import "github.com/go-redis/redis"
import "github.com/satori/go.uuid"

type RedisRegistry struct {
	client *redis.Client
}

func NewRedisRegistry(server string, db int, password string) Registry {
	client := redis.NewClient(&redis.Options{Addr: server,
		DB:       db,
		Password: password})
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) CreateOwner(owner OwnerId) (LedgerId, error) {
	key := keyOwner(owner)
	existing, err := r.client.HGet(key, fieldLedger).Result()
	if err != nil && err != redis.Nil {
		log.Printf("Could not check owner key %s; error: %s", key, err)
		return "", err
	}
	if err == nil && existing != "" {
		return "", ErrOwnerExists
	}

	id := LedgerId(uuid.NewV4().String())
	log.Printf("Registering owner %d with new ledger '%s'", owner, id)
	if err := r.client.HSet(key, fieldLedger, string(id)).Err(); err != nil {
		log.Printf("Could not register owner %d; error: %s", owner, err)
		return "", err
	}
	return id, nil
}

func (r *RedisRegistry) GetLedgerForOwner(owner OwnerId, createIfAbsent bool) (LedgerId, error) {
	key := keyOwner(owner)
	idStr, err := r.client.HGet(key, fieldLedger).Result()
	if err == redis.Nil || (err == nil && idStr == "") {
		if createIfAbsent {
			return r.CreateOwner(owner)
		}
		return "", ErrNotInitialized
	}
	if err != nil {
		log.Printf("Could not get ledger for owner %d; error: %s", owner, err)
		return "", err
	}
	return LedgerId(idStr), nil
}

func (r *RedisRegistry) GetAllOwners() (map[OwnerId]OwnerData, error) {
	keys, err := r.client.Keys(scannerOwners()).Result()
	if err != nil {
		log.Printf("Could not list owner keys; error: %s", err)
		return nil, err
	}

	owners := make(map[OwnerId]OwnerData, len(keys))
	for _, key := range keys {
		owner, err := ownerFromKey(key)
		if err != nil {
			log.Printf("Skipping registry key: %s", err)
			continue
		}
		fields, err := r.client.HGetAll(key).Result()
		if err != nil {
			log.Printf("Could not read registry entry %s; error: %s", key, err)
			return nil, err
		}

		data := OwnerData{}
		if idStr, found := fields[fieldLedger]; found && idStr != "" {
			id := LedgerId(idStr)
			data.LedgerId = &id
		}
		if minutesStr, found := fields[fieldDigestTime]; found {
			minutes, err := strconv.Atoi(minutesStr)
			if err != nil {
				log.Printf("Owner %d has malformed digest time '%s'; ignoring it", owner, minutesStr)
			} else {
				t := time.Duration(minutes) * time.Minute
				data.DigestTime = &t
			}
		}
		owners[owner] = data
	}
	return owners, nil
}

func (r *RedisRegistry) SetDigestTime(owner OwnerId, t *time.Duration) error {
	key := keyOwner(owner)
	if t == nil {
		return r.client.HDel(key, fieldDigestTime).Err()
	}
	minutes := int(*t / time.Minute)
	return r.client.HSet(key, fieldDigestTime, strconv.Itoa(minutes)).Err()
}

package statusredis_test

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/status/statusredis"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeHashes keeps hashes in memory and records expiries.
type fakeHashes struct {
	hashes  map[string]map[string]string
	expires map[string]time.Duration
	err     error
}

func newFakeHashes() *fakeHashes {
	return &fakeHashes{hashes: map[string]map[string]string{}, expires: map[string]time.Duration{}}
}

func (f *fakeHashes) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	out := map[string]string{}
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, f.err)
}

func (f *fakeHashes) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	if f.hashes[key] == nil {
		f.hashes[key] = map[string]string{}
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.hashes[key][values[i].(string)] = values[i+1].(string)
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (f *fakeHashes) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeHashes) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.hashes, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

var _ = Describe("Persister", func() {
	var (
		client    *fakeHashes
		persister *statusredis.Persister
		ctx       context.Context
	)

	BeforeEach(func() {
		client = newFakeHashes()
		persister = statusredis.NewWithClient(client, "", 0)
		ctx = context.Background()
	})

	It("stores one field per account and task in a dated hash", func() {
		Expect(persister.Save(ctx, "2026-10-18", "0xabc", status.TaskDailyXP)).To(Succeed())

		Expect(client.hashes).To(HaveKeyWithValue("quest-runner:status:2026-10-18",
			map[string]string{"0xabc:daily_xp": "1"}))
		Expect(client.expires).To(HaveKeyWithValue("quest-runner:status:2026-10-18", statusredis.DefaultTTL))
	})

	It("loads saved flags back", func() {
		Expect(persister.Save(ctx, "2026-10-18", "1", status.TaskFaucet)).To(Succeed())
		Expect(persister.Save(ctx, "2026-10-18", "1", status.TaskQuestTweet)).To(Succeed())
		Expect(persister.Save(ctx, "2026-10-17", "2", status.TaskFaucet)).To(Succeed())

		flags, err := persister.Load(ctx, "2026-10-18")
		Expect(err).NotTo(HaveOccurred())
		Expect(flags).To(Equal(map[string]map[status.Task]bool{
			"1": {status.TaskFaucet: true, status.TaskQuestTweet: true},
		}))
	})

	It("skips malformed fields", func() {
		client.hashes["quest-runner:status:2026-10-18"] = map[string]string{
			":faucet":       "1",
			"3":             "1",
			"4:":            "1",
			"5:daily_xp":    "0",
			"6:quest_tweet": "1",
		}

		flags, err := persister.Load(ctx, "2026-10-18")
		Expect(err).NotTo(HaveOccurred())
		Expect(flags).To(Equal(map[string]map[status.Task]bool{"6": {status.TaskQuestTweet: true}}))
	})

	It("clears a day", func() {
		Expect(persister.Save(ctx, "2026-10-18", "1", status.TaskFaucet)).To(Succeed())
		Expect(persister.Clear(ctx, "2026-10-18")).To(Succeed())
		Expect(client.hashes).To(BeEmpty())
	})

	It("wraps client errors", func() {
		client.err = errors.New("READONLY")
		_, err := persister.Load(ctx, "2026-10-18")
		Expect(err).To(MatchError(ContainSubstring("READONLY")))
		Expect(persister.Save(ctx, "2026-10-18", "1", status.TaskFaucet)).To(MatchError(ContainSubstring("READONLY")))
	})

	It("backs a status store across restarts", func() {
		loc, err := time.LoadLocation("UTC")
		Expect(err).NotTo(HaveOccurred())
		now := func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, loc) }

		wallet := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
		status.NewStore(loc, status.WithClock(now), status.WithPersister(persister),
			status.WithAccountKeys(map[int]string{9: wallet})).
			MarkDone(9, status.TaskQuestFaucet)
		Expect(client.hashes["quest-runner:status:2026-10-18"]).To(HaveKey(wallet + ":quest_faucet"))

		// The same wallet moved to the first line of the accounts file.
		restarted := status.NewStore(loc, status.WithClock(now), status.WithPersister(persister),
			status.WithAccountKeys(map[int]string{1: wallet}))
		Expect(restarted.Restore(ctx)).To(Succeed())
		Expect(restarted.IsDone(1, status.TaskQuestFaucet)).To(BeTrue())
		Expect(restarted.IsDone(9, status.TaskQuestFaucet)).To(BeFalse())
	})
})

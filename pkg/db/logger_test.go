package db_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm/logger"

	"github.com/lisanmuaddib/quest-runner/pkg/db"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GormLogrusLogger", func() {
	var (
		base *logrus.Logger
		hook *test.Hook
		ctx  context.Context
	)

	query := func() (string, int64) { return "SELECT 1", 1 }

	BeforeEach(func() {
		base, hook = test.NewNullLogger()
		base.SetOutput(io.Discard)
		base.SetLevel(logrus.DebugLevel)
		ctx = context.Background()
	})

	It("logs failed queries as errors", func() {
		db.NewGormLogrusLogger(base).Trace(ctx, time.Now(), query, errors.New("boom"))

		Expect(hook.LastEntry()).NotTo(BeNil())
		Expect(hook.LastEntry().Level).To(Equal(logrus.ErrorLevel))
		Expect(hook.LastEntry().Data).To(HaveKeyWithValue("source", "gorm"))
		Expect(hook.LastEntry().Data).To(HaveKeyWithValue("sql", "SELECT 1"))
	})

	It("flags slow queries", func() {
		db.NewGormLogrusLogger(base).Trace(ctx, time.Now().Add(-time.Second), query, nil)

		Expect(hook.LastEntry().Level).To(Equal(logrus.WarnLevel))
		Expect(hook.LastEntry().Message).To(Equal("slow query detected"))
	})

	It("keeps fast queries quiet below info mode", func() {
		db.NewGormLogrusLogger(base).Trace(ctx, time.Now(), query, nil)
		Expect(hook.AllEntries()).To(BeEmpty())
	})

	It("traces every query in info mode", func() {
		db.NewGormLogrusLogger(base).LogMode(logger.Info).Trace(ctx, time.Now(), query, nil)
		Expect(hook.LastEntry().Level).To(Equal(logrus.DebugLevel))
	})

	It("drops everything when silent", func() {
		l := db.NewGormLogrusLogger(base).LogMode(logger.Silent)
		l.Trace(ctx, time.Now(), query, errors.New("boom"))
		l.Error(ctx, "ignored %d", 1)
		Expect(hook.AllEntries()).To(BeEmpty())
	})
})

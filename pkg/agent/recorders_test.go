package agent_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lisanmuaddib/quest-runner/pkg/agent"
)

var _ = Describe("Recorders", func() {
	It("hands the report to every recorder even when one fails", func() {
		failing := &fakeRecorder{err: errors.New("db down")}
		healthy := &fakeRecorder{}
		report := &agent.PassReport{Mode: agent.ModeFull}

		err := agent.Recorders{failing, healthy}.RecordPass(context.Background(), report)

		Expect(err).To(MatchError(ContainSubstring("db down")))
		Expect(failing.count()).To(Equal(1))
		Expect(healthy.count()).To(Equal(1))
	})

	It("returns nil when every recorder succeeds", func() {
		Expect(agent.Recorders{&fakeRecorder{}}.RecordPass(context.Background(), &agent.PassReport{})).To(Succeed())
		Expect(agent.Recorders(nil).RecordPass(context.Background(), &agent.PassReport{})).To(Succeed())
	})
})

package agent_test

import (
	"time"

	"github.com/lisanmuaddib/quest-runner/pkg/agent"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SchedulerConfig", func() {
	It("defaults to the campaign timings", func() {
		config := agent.NewDefaultSchedulerConfig()
		Expect(config.InterTaskDelay).To(Equal(60 * time.Second))
		Expect(config.InterAccountDelay).To(Equal(2 * time.Minute))
		Expect(config.SingleTaskAccountDelay).To(Equal(30 * time.Second))
		Expect(config.LoopInterval).To(Equal(24*time.Hour + 5*time.Minute))
		Expect(config.Validate()).To(Succeed())
	})

	It("rejects negative delays", func() {
		config := agent.NewDefaultSchedulerConfig()
		config.InterAccountDelay = -time.Second
		Expect(config.Validate()).To(HaveOccurred())
	})
})

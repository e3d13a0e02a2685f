package odyssey_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/odyssey"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		client   *odyssey.Client
		lastPath string
		lastBody map[string]interface{}
		lastReq  *http.Request
	)

	BeforeEach(func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastPath = r.URL.Path
			lastReq = r
			lastBody = nil
			_ = json.NewDecoder(r.Body).Decode(&lastBody)
			handler(w, r)
		}))

		logger := logrus.New()
		logger.SetOutput(io.Discard)

		var err error
		client, err = odyssey.NewClient(&odyssey.Config{
			FaucetURL:      server.URL + "/faucet/api/fundUser",
			BaseURL:        server.URL + "/api",
			Origin:         "https://odyssey.page",
			RequestTimeout: 5 * time.Second,
			TimeZone:       "Asia/Jakarta",
			Logger:         logger,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("posts the faucet payload with the account cookie", func() {
		resp, err := client.ClaimFaucet(context.Background(), "session=abc", "0xabc", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		Expect(lastPath).To(Equal("/faucet/api/fundUser"))
		Expect(lastBody).To(HaveKeyWithValue("walletAddress", "0xabc"))
		Expect(lastBody).To(HaveKeyWithValue("amount", BeNumerically("==", 2)))
		Expect(lastReq.Header.Get("Cookie")).To(Equal("session=abc"))
		Expect(odyssey.UserAgents).To(ContainElement(lastReq.Header.Get("User-Agent")))
		Expect(lastReq.Header.Get("Origin")).To(BeEmpty())
	})

	It("routes quest checks by id with campaign headers", func() {
		_, err := client.CheckQuest(context.Background(), "c", "0xabc", odyssey.QuestFaucet)
		Expect(err).NotTo(HaveOccurred())
		Expect(lastPath).To(Equal("/api/quest/check-faucet"))
		Expect(lastBody).To(HaveKeyWithValue("questId", BeNumerically("==", 10)))
		Expect(lastReq.Header.Get("Origin")).To(Equal("https://odyssey.page"))
		Expect(lastReq.Header.Get("Referer")).To(Equal("https://odyssey.page/quest"))
		Expect(lastReq.Header.Get("Sec-Fetch-Site")).To(Equal("same-origin"))

		_, err = client.CheckQuest(context.Background(), "c", "0xabc", odyssey.QuestTweet)
		Expect(err).NotTo(HaveOccurred())
		Expect(lastPath).To(Equal("/api/quest/check-tweet"))
		Expect(lastBody).To(HaveKeyWithValue("questId", BeNumerically("==", 9)))
	})

	It("rejects unknown quests without calling out", func() {
		lastPath = ""
		_, err := client.CheckQuest(context.Background(), "c", "0xabc", 42)
		Expect(err).To(HaveOccurred())
		Expect(lastPath).To(BeEmpty())
	})

	It("sends the time zone with daily XP and exposes streak telemetry", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"streakData":{"currentStreak":4,"xpEarned":50},"newLevel":3}`))
		}

		resp, err := client.ClaimDailyXP(context.Background(), "c", "0xabc")
		Expect(err).NotTo(HaveOccurred())
		Expect(lastPath).To(Equal("/api/player/daily-xp"))
		Expect(lastBody).To(HaveKeyWithValue("timeZone", "Asia/Jakarta"))

		xp, err := odyssey.ParseDailyXP(resp)
		Expect(err).NotTo(HaveOccurred())
		t := xp.Telemetry()
		Expect(*t.CurrentStreak).To(Equal(4))
		Expect(*t.XPEarned).To(Equal(50))
		Expect(*t.NewLevel).To(Equal(3))
	})

	Context("when the daily XP payload is rejected", func() {
		var bodies []map[string]interface{}

		BeforeEach(func() {
			bodies = nil
		})

		rejectUntil := func(accepted int) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				bodies = append(bodies, lastBody)
				if len(bodies) < accepted {
					w.WriteHeader(http.StatusBadRequest)
					_, _ = w.Write([]byte(`{"message":"Invalid request body"}`))
					return
				}
				_, _ = w.Write([]byte(`{"newLevel":2}`))
			}
		}

		It("falls back to the payload without a time zone", func() {
			handler = rejectUntil(2)

			_, err := client.ClaimDailyXP(context.Background(), "c", "0xabc")
			Expect(err).NotTo(HaveOccurred())
			Expect(bodies).To(HaveLen(2))
			Expect(bodies[1]).To(HaveKeyWithValue("walletAddress", "0xabc"))
			Expect(bodies[1]).NotTo(HaveKey("timeZone"))
			Expect(bodies[1]).NotTo(HaveKey("timezone"))
		})

		It("tries the lowercase timezone key last", func() {
			handler = rejectUntil(3)

			_, err := client.ClaimDailyXP(context.Background(), "c", "0xabc")
			Expect(err).NotTo(HaveOccurred())
			Expect(bodies).To(HaveLen(3))
			Expect(bodies[2]).To(HaveKeyWithValue("timezone", "Asia/Jakarta"))
		})

		It("returns the last rejection when every shape fails", func() {
			handler = rejectUntil(4)

			_, err := client.ClaimDailyXP(context.Background(), "c", "0xabc")
			var apiErr *odyssey.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(bodies).To(HaveLen(3))
		})

		It("stops at an already-claimed answer", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				bodies = append(bodies, lastBody)
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"Already checked in today"}`))
			}

			_, err := client.ClaimDailyXP(context.Background(), "c", "0xabc")
			Expect(err).To(HaveOccurred())
			Expect(bodies).To(HaveLen(1))
		})

		It("does not retry other shapes on auth failures", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				bodies = append(bodies, lastBody)
				w.WriteHeader(http.StatusUnauthorized)
			}

			_, err := client.ClaimDailyXP(context.Background(), "c", "0xabc")
			Expect(err).To(HaveOccurred())
			Expect(bodies).To(HaveLen(1))
		})
	})

	DescribeTable("maps failures to APIError",
		func(status int, body, message string) {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(body))
			}

			_, err := client.ClaimFaucet(context.Background(), "c", "0xabc", 2)
			var apiErr *odyssey.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.HTTPStatus()).To(Equal(status))
			Expect(apiErr.Message).To(Equal(message))
		},
		Entry("message field", http.StatusBadRequest, `{"message":"Already claimed today"}`, "Already claimed today"),
		Entry("error field", http.StatusUnauthorized, `{"error":"invalid session"}`, "invalid session"),
		Entry("non-JSON body", http.StatusBadGateway, `<html>bad gateway</html>`, "Bad Gateway"),
	)

	It("reports unreachable servers as connection errors", func() {
		server.Close()

		_, err := client.ClaimDailyXP(context.Background(), "c", "0xabc")
		var connErr *odyssey.ConnectionError
		Expect(errors.As(err, &connErr)).To(BeTrue())
	})
})

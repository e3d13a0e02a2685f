package accounts_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const accountsYAML = `accounts:
  - name: main
    wallet: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
    cookie: "session=abc"
    private_key: "0xkey"
    faucet_amount: 5
  - wallet: "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
    cookie: "session=def"
    faucet_amount: -1
`

var _ = Describe("YAML accounts", func() {
	var logger *logrus.Logger

	BeforeEach(func() {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	})

	It("parses the accounts list", func() {
		list, err := accounts.ParseAccountsYAML(strings.NewReader(accountsYAML), logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))

		Expect(list[0].ID).To(Equal(1))
		Expect(list[0].Name).To(Equal("main"))
		Expect(list[0].Wallet).To(Equal("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
		Expect(list[0].PrivateKey).To(Equal("0xkey"))
		Expect(list[0].FaucetAmount).To(Equal(5))

		Expect(list[1].Name).To(Equal("Account 2"))
		Expect(list[1].HasPrivateKey()).To(BeFalse())
		Expect(list[1].FaucetAmount).To(Equal(accounts.DefaultFaucetAmount))
	})

	It("treats an empty document as no accounts", func() {
		list, err := accounts.ParseAccountsYAML(strings.NewReader(""), logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(BeEmpty())
	})

	It("rejects malformed YAML", func() {
		_, err := accounts.ParseAccountsYAML(strings.NewReader("accounts: [:"), logger)
		Expect(err).To(HaveOccurred())
	})

	It("is picked by LoadAccounts from the file extension", func() {
		path := filepath.Join(GinkgoT().TempDir(), "accounts.yml")
		Expect(os.WriteFile(path, []byte(accountsYAML), 0o600)).To(Succeed())

		list, err := accounts.LoadAccounts(path, logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[1].Cookie).To(Equal("session=def"))
	})
})

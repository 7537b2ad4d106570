package mint

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/bharath-123/cat-mint/catmint"
	"github.com/bharath-123/cat-mint/chainio"
	"github.com/bharath-123/cat-mint/iac"
	"github.com/bharath-123/cat-mint/logger"
	"github.com/bharath-123/cat-mint/metrics"
	"github.com/bharath-123/cat-mint/secret"
	"github.com/bharath-123/cat-mint/types"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type recordingPublisher struct {
	events []iac.ResultEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...iac.ResultEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

type runTestSuite struct {
	suite.Suite
	mu        sync.Mutex
	calls     []string
	server    *httptest.Server
	cfg       Config
	txCode    uint32
	noState   bool
	publisher *recordingPublisher
	log       *logger.MockLogger
}

func (s *runTestSuite) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *runTestSuite) SetupTest() {
	s.calls = nil
	s.txCode = 0
	s.noState = false
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/auth/v1beta1/accounts/", func(w http.ResponseWriter, r *http.Request) {
		s.record("account")
		addr := strings.TrimPrefix(r.URL.Path, "/cosmos/auth/v1beta1/accounts/")
		_, _ = fmt.Fprintf(w, `{"account":{"@type":"/cosmos.auth.v1beta1.BaseAccount","address":%q,"pub_key":null,"account_number":"42","sequence":"7"}}`, addr)
	})
	mux.HandleFunc("/cosmos/tx/v1beta1/simulate", func(w http.ResponseWriter, r *http.Request) {
		s.record("simulate")
		_, _ = io.WriteString(w, `{"gas_info":{"gas_wanted":"0","gas_used":"85000"},"result":null}`)
	})
	mux.HandleFunc("/cosmos/tx/v1beta1/txs", func(w http.ResponseWriter, r *http.Request) {
		s.record("broadcast")
		_, _ = fmt.Fprintf(w, `{"tx_response":{"height":"0","txhash":"9A3C5E","codespace":"wasm","code":%d,"raw_log":"[]"}}`, s.txCode)
	})
	mux.HandleFunc("/cosmos/tx/v1beta1/txs/9A3C5E", func(w http.ResponseWriter, r *http.Request) {
		s.record("tx")
		_, _ = io.WriteString(w, `{"tx_response":{"height":"8812345","txhash":"9A3C5E","code":0,"gas_wanted":"148750","gas_used":"90211"}}`)
	})
	mux.HandleFunc("/cosmwasm/wasm/v1/contract/", func(w http.ResponseWriter, r *http.Request) {
		s.record("smart")
		if s.noState {
			_, _ = io.WriteString(w, `{"data":{}}`)
			return
		}
		_, _ = fmt.Fprintf(w, `{"data":{"state":{"owner":"terra1owner","cat_token_contract":"terra1token","genesis_timestamp":%q,"funds_wallet":"terra1funds"}}}`,
			catmint.NewTimestamp(time.Now().Add(-time.Hour)))
	})
	s.server = httptest.NewServer(mux)

	s.cfg = DefaultConfig()
	s.cfg.Client.URL = s.server.URL
	s.publisher = &recordingPublisher{}
	s.log = logger.NewMockLogger()
}

func (s *runTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *runTestSuite) deps(src secret.Source) Deps {
	return Deps{
		Secret:       src,
		Logger:       s.log,
		Publisher:    s.publisher,
		ChainOptions: []chainio.Option{chainio.WithPollInterval(10 * time.Millisecond)},
	}
}

func (s *runTestSuite) TestRun() {
	reg := prometheus.NewRegistry()
	deps := s.deps(secret.Static(testMnemonic))
	ind := metrics.NewPromIndicators(reg, "mint")
	deps.Indicators = ind

	result, err := Run(context.Background(), s.cfg, deps)
	s.Require().NoError(err)
	s.Equal("9A3C5E", result.TxHash)
	s.Equal([]string{"account", "account", "simulate", "broadcast"}, s.calls)

	s.Require().Len(s.publisher.events, 1)
	ev := s.publisher.events[0]
	s.Equal("columbus-5", ev.ChainID)
	s.Equal(DefaultContract, ev.Contract)
	s.True(strings.HasPrefix(ev.Sender, "terra1"))

	count, err := testutil.GatherAndCount(reg, "catmint_mint_processed_txs_total")
	s.Require().NoError(err)
	s.Equal(1, count)

	for _, e := range s.log.Entries() {
		for _, f := range e.Fields {
			s.NotContains(fmt.Sprint(f.Val), "abandon")
		}
		s.NotContains(e.Msg, "abandon")
	}
}

func (s *runTestSuite) TestRunWait() {
	s.cfg.Wait = true
	result, err := Run(context.Background(), s.cfg, s.deps(secret.Static(testMnemonic)))
	s.Require().NoError(err)
	s.Equal(int64(8812345), result.Height)
	s.Equal([]string{"account", "account", "simulate", "broadcast", "tx"}, s.calls)
}

func (s *runTestSuite) TestRunRejectedByNode() {
	s.txCode = 5
	s.cfg.Wait = true
	result, err := Run(context.Background(), s.cfg, s.deps(secret.Static(testMnemonic)))
	s.ErrorIs(err, types.ErrTransactionRejected)
	s.Require().NotNil(result)
	s.Equal(uint32(5), result.Code)
	s.NotContains(s.calls, "tx")
	s.Len(s.publisher.events, 1)
}

func (s *runTestSuite) TestRunWithoutSecret() {
	_, err := Run(context.Background(), s.cfg, s.deps(secret.Chain{secret.EnvSource{Name: "CATMINT_TEST_NO_SUCH_VAR"}}))
	s.ErrorIs(err, types.ErrKeyDerivation)
	s.True(IsNoSecret(err))
	s.Empty(s.calls)
}

func (s *runTestSuite) TestRunInvalidMnemonic() {
	_, err := Run(context.Background(), s.cfg, s.deps(secret.Static("cat cat cat")))
	s.ErrorIs(err, types.ErrKeyDerivation)
	s.Empty(s.calls)
	s.Empty(s.publisher.events)
}

func (s *runTestSuite) TestRunTwiceSubmitsTwice() {
	_, err := Run(context.Background(), s.cfg, s.deps(secret.Static(testMnemonic)))
	s.Require().NoError(err)
	_, err = Run(context.Background(), s.cfg, s.deps(secret.Static(testMnemonic)))
	s.Require().NoError(err)

	broadcasts := 0
	for _, c := range s.calls {
		if c == "broadcast" {
			broadcasts++
		}
	}
	s.Equal(2, broadcasts)
}

func (s *runTestSuite) TestRunUnreachable() {
	s.server.Close()
	_, err := Run(context.Background(), s.cfg, s.deps(secret.Static(testMnemonic)))
	s.ErrorIs(err, types.ErrNetwork)
}

func (s *runTestSuite) warnings() []string {
	var msgs []string
	for _, e := range s.log.Entries() {
		if e.Level == "warn" {
			msgs = append(msgs, e.Msg)
		}
	}
	return msgs
}

func (s *runTestSuite) TestRunCheckPriceWarnsAndStillSubmits() {
	s.cfg.CheckPrice = true
	result, err := Run(context.Background(), s.cfg, s.deps(secret.Static(testMnemonic)))
	s.Require().NoError(err)
	s.Equal("9A3C5E", result.TxHash)
	s.Equal([]string{"smart", "account", "account", "simulate", "broadcast"}, s.calls)
	s.Contains(s.warnings(), "funds do not cover the mint price")
}

func (s *runTestSuite) TestRunCheckPriceCovered() {
	s.cfg.CheckPrice = true
	s.cfg.Execute = s.cfg.Execute.WithFunds("1000000uluna")
	_, err := Run(context.Background(), s.cfg, s.deps(secret.Static(testMnemonic)))
	s.Require().NoError(err)
	s.Empty(s.warnings())
}

func (s *runTestSuite) TestRunCheckPriceQueryFailure() {
	s.cfg.CheckPrice = true
	s.noState = true
	s.txCode = 5
	result, err := Run(context.Background(), s.cfg, s.deps(secret.Static(testMnemonic)))
	s.ErrorIs(err, types.ErrTransactionRejected)
	s.Equal(uint32(5), result.Code)
	s.Contains(s.warnings(), "contract state is not initialised")
	s.Contains(s.calls, "broadcast")
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(runTestSuite))
}

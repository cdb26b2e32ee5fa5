package balance

import (
	"context"
	"errors"
	"testing"

	"fxbalance/internal/domain"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateClient struct{ mock.Mock }

func (m *MockRateClient) GetDailyRates(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	rates, _ := args.Get(0).(map[string]float64)
	return rates, args.Error(1)
}

type MockFailureCache struct{ mock.Mock }

func (m *MockFailureCache) Last() (domain.FetchFailure, bool) {
	args := m.Called()
	failure, _ := args.Get(0).(domain.FetchFailure)
	return failure, args.Bool(1)
}

func (m *MockFailureCache) Record(failure domain.FetchFailure) {
	m.Called(failure)
}

var testCurrencies = []string{"RUB", "USD", "EUR"}

func newTestFetcher(client *MockRateClient, failures *MockFailureCache) (*Fetcher, *logtest.Hook) {
	log, hook := logtest.NewNullLogger()
	return NewFetcher(client, failures, testCurrencies, "RUB", log), hook
}

func TestFetcher_Fetch_Success(t *testing.T) {
	client := new(MockRateClient)
	failures := new(MockFailureCache)
	f, _ := newTestFetcher(client, failures)

	failures.On("Last").Return(domain.FetchFailure{}, false).Once()
	client.On("GetDailyRates", mock.Anything).Return(map[string]float64{"USD": 90.0, "EUR": 100.0, "GBP": 115.0}, nil).Once()

	rates := f.Fetch(context.Background())

	require.Equal(t, map[string]float64{"RUB": 1.0, "USD": 90.0, "EUR": 100.0}, rates)
	client.AssertExpectations(t)
	failures.AssertExpectations(t)
}

func TestFetcher_Fetch_MissingCurrencyWarnsAndUsesZero(t *testing.T) {
	client := new(MockRateClient)
	failures := new(MockFailureCache)
	f, hook := newTestFetcher(client, failures)

	failures.On("Last").Return(domain.FetchFailure{}, false).Once()
	client.On("GetDailyRates", mock.Anything).Return(map[string]float64{"USD": 90.0}, nil).Once()

	rates := f.Fetch(context.Background())

	require.Equal(t, map[string]float64{"RUB": 1.0, "USD": 90.0, "EUR": 0.0}, rates)

	var warned bool
	for _, entry := range hook.Entries {
		if entry.Level == logrus.WarnLevel {
			warned = true
			require.Contains(t, entry.Message, "EUR")
		}
	}
	require.True(t, warned, "expected a warning for the missing EUR rate")
}

func TestFetcher_Fetch_CooldownSkipsNetworkCall(t *testing.T) {
	client := new(MockRateClient)
	failures := new(MockFailureCache)
	f, _ := newTestFetcher(client, failures)

	failures.On("Last").Return(domain.FetchFailure{Message: "connection refused"}, true).Once()

	rates := f.Fetch(context.Background())

	require.Equal(t, map[string]float64{"RUB": 0.0, "USD": 0.0, "EUR": 0.0}, rates)
	client.AssertNotCalled(t, "GetDailyRates", mock.Anything)
	failures.AssertExpectations(t)
}

func TestFetcher_Fetch_FailureRecordsAndReturnsDegraded(t *testing.T) {
	client := new(MockRateClient)
	failures := new(MockFailureCache)
	f, hook := newTestFetcher(client, failures)

	wantErr := errors.New("connection refused")
	failures.On("Last").Return(domain.FetchFailure{}, false).Once()
	client.On("GetDailyRates", mock.Anything).Return(nil, wantErr).Once()
	failures.On("Record", mock.MatchedBy(func(f domain.FetchFailure) bool {
		return f.Message == "connection refused" && !f.At.IsZero()
	})).Return().Once()

	rates := f.Fetch(context.Background())

	require.Equal(t, map[string]float64{"RUB": 0.0, "USD": 0.0, "EUR": 0.0}, rates)
	require.NotNil(t, hook.LastEntry())
	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	failures.AssertExpectations(t)
}

func TestFetcher_Fetch_DuplicateFailureLoggedOnce(t *testing.T) {
	client := new(MockRateClient)
	failures := new(MockFailureCache)
	f, hook := newTestFetcher(client, failures)

	wantErr := errors.New("connection refused")
	failures.On("Last").Return(domain.FetchFailure{}, false)
	client.On("GetDailyRates", mock.Anything).Return(nil, wantErr)
	failures.On("Record", mock.Anything).Return()

	f.Fetch(context.Background())
	f.Fetch(context.Background())

	var errorLogs int
	for _, entry := range hook.Entries {
		if entry.Level == logrus.ErrorLevel {
			errorLogs++
		}
	}
	require.Equal(t, 1, errorLogs, "identical failure messages must be logged once")
}

func TestFetcher_Fetch_DistinctFailureLoggedAgain(t *testing.T) {
	client := new(MockRateClient)
	failures := new(MockFailureCache)
	f, hook := newTestFetcher(client, failures)

	failures.On("Last").Return(domain.FetchFailure{}, false)
	failures.On("Record", mock.Anything).Return()
	client.On("GetDailyRates", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	client.On("GetDailyRates", mock.Anything).Return(nil, errors.New("unexpected status code 503")).Once()

	f.Fetch(context.Background())
	f.Fetch(context.Background())

	var errorLogs int
	for _, entry := range hook.Entries {
		if entry.Level == logrus.ErrorLevel {
			errorLogs++
		}
	}
	require.Equal(t, 2, errorLogs, "a new failure message must be logged")
}

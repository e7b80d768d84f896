package usecases

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"inventory-sync/internal/adapters/woo"
	"inventory-sync/internal/logging"
)

type Pinger interface {
	Name() string
	Ping(ctx context.Context) (int, error)
}

type VerifyStatus string

const (
	VerifyOK           VerifyStatus = "ok"
	VerifyUnauthorized VerifyStatus = "invalid credentials"
	VerifyTimeout      VerifyStatus = "timeout"
	VerifyError        VerifyStatus = "error"
)

type VerifyResult struct {
	Client string       `json:"client"`
	Status VerifyStatus `json:"status"`
	Detail string       `json:"detail,omitempty"`
}

// VerifyStorefronts checks every storefront's credentials concurrently and
// returns the results in input order.
func VerifyStorefronts(ctx context.Context, storefronts []Pinger, logger logging.LoggerService) []VerifyResult {
	results := make([]VerifyResult, len(storefronts))
	var wg sync.WaitGroup
	for i, sf := range storefronts {
		wg.Add(1)
		go func(i int, sf Pinger) {
			defer wg.Done()
			_, err := sf.Ping(ctx)
			res := VerifyResult{Client: sf.Name(), Status: classifyVerify(err)}
			if err != nil {
				res.Detail = err.Error()
				if logger != nil {
					logger.LogWarning("storefront check failed", "client", res.Client, "status", string(res.Status))
				}
			}
			results[i] = res
		}(i, sf)
	}
	wg.Wait()
	return results
}

func classifyVerify(err error) VerifyStatus {
	if err == nil {
		return VerifyOK
	}
	switch woo.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return VerifyUnauthorized
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return VerifyTimeout
	}
	return VerifyError
}

package fetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/blogrank/blogrank/internal/metrics"
)

// Config controls collector behavior. Headers are read-only after
// construction and shared by every fetch.
type Config struct {
	UserAgent      string
	Referer        string
	AcceptLanguage string
	Timeout        time.Duration
}

// CollyFetcher implements Fetcher using the Colly collector.
type CollyFetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewCollyFetcher builds a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) *CollyFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 12 * time.Second
	}
	opts := []colly.CollectorOption{
		colly.UserAgent(cfg.UserAgent),
	}
	base := colly.NewCollector(opts...)
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = true
	base.DetectCharset = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
	})
	base.SetRequestTimeout(cfg.Timeout)

	return &CollyFetcher{
		cfg:           cfg,
		baseCollector: base,
		logger:        logger,
	}
}

// Fetch retrieves a page via a clone of the base collector. A non-2xx
// response comes back as *Error with KindHTTPStatus, never as a body.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	collector := f.baseCollector.Clone()

	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnRequest(func(r *colly.Request) {
		if f.cfg.Referer != "" {
			r.Headers.Set("Referer", f.cfg.Referer)
		}
		if f.cfg.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", f.cfg.AcceptLanguage)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{body: string(r.Body)})
	})

	collector.OnError(func(r *colly.Response, err error) {
		send(fetchResult{err: f.classify(rawURL, r, err)})
	})

	// Visit reports transport and status failures synchronously, after the
	// OnError callback already classified them. Prefer the classified result.
	visitErr := collector.Visit(rawURL)
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			metrics.RecordFetch("canceled")
			return "", &Error{Kind: KindTimeout, URL: rawURL, Err: err}
		}
		if res.err != nil {
			metrics.RecordFetch("error")
			f.logger.Debug("fetch failed", zap.String("url", rawURL), zap.Error(res.err))
			return "", res.err
		}
		metrics.RecordFetch("ok")
		return res.body, nil
	default:
		metrics.RecordFetch("error")
		if visitErr == nil {
			visitErr = errors.New("collector produced no result")
		}
		return "", &Error{Kind: KindNetwork, URL: rawURL, Err: visitErr}
	}
}

func (f *CollyFetcher) classify(rawURL string, r *colly.Response, err error) *Error {
	if r != nil && r.StatusCode != 0 {
		return &Error{Kind: KindHTTPStatus, URL: rawURL, StatusCode: r.StatusCode, Err: err}
	}
	if err == nil {
		err = errors.New("unknown colly error")
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, URL: rawURL, Err: err}
	}
	return &Error{Kind: KindNetwork, URL: rawURL, Err: err}
}

type fetchResult struct {
	body string
	err  error
}

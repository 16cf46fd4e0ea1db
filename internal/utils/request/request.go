package request

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// New returns an HTTP client for upstream data sources. No retries: a failed
// fetch is terminal for that call and the caller degrades to zero.
func New() *resty.Client {
	return resty.New().SetTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment, // 通用适配环境变量
	}).SetRetryCount(0)
}

package client

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type HttpClientInterface interface {
	Get(url string, headers map[string]string) ([]byte, error)
	Post(url string, body string, headers map[string]string) ([]byte, error)
	Delete(url string, headers map[string]string) ([]byte, error)
}

type HttpClient struct {
}

func (h *HttpClient) Get(url string, headers map[string]string) ([]byte, error) {
	return h.request("GET", url, "", headers)
}

func (h *HttpClient) Post(url string, body string, headers map[string]string) ([]byte, error) {
	return h.request("POST", url, body, headers)
}

func (h *HttpClient) Delete(url string, headers map[string]string) ([]byte, error) {
	return h.request("DELETE", url, "", headers)
}

func (h *HttpClient) request(method string, url string, body string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	client := &http.Client{
		Timeout: 20 * time.Second,
	}

	res, err := client.Do(req)

	if err != nil {
		return nil, err
	}

	responseBody, err := io.ReadAll(res.Body)
	defer res.Body.Close()

	if err != nil {
		return nil, err
	}

	if res.StatusCode >= 400 {
		return nil, errors.New(fmt.Sprintf(
			"Request [%s %s] failed with error code %d: %s",
			method,
			url,
			res.StatusCode,
			string(responseBody),
		))
	}

	return responseBody, nil
}

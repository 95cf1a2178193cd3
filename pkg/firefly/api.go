package firefly

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"k8s.io/klog"
)

// Api is a thin bearer-token session over the Firefly III REST API. It only
// deals with transport; Client implements the higher-level calls.
type Api struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewApi(hostname, token string) *Api {
	return &Api{
		client:  &http.Client{},
		baseURL: strings.TrimSuffix(hostname, "/") + "/api/v1/",
		token:   token,
	}
}

func (a *Api) Get(endpoint string, params url.Values) (map[string]interface{}, error) {
	return a.do(http.MethodGet, endpoint, params, nil)
}

func (a *Api) Post(endpoint string, payload interface{}) (map[string]interface{}, error) {
	return a.do(http.MethodPost, endpoint, nil, payload)
}

func (a *Api) Put(endpoint string, payload interface{}) (map[string]interface{}, error) {
	return a.do(http.MethodPut, endpoint, nil, payload)
}

func (a *Api) Delete(endpoint string) error {
	_, err := a.do(http.MethodDelete, endpoint, nil, nil)
	return err
}

func (a *Api) buildURI(endpoint string, params url.Values) string {
	uri := a.baseURL + endpoint
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}

	return uri
}

func (a *Api) do(method, endpoint string, params url.Values, payload interface{}) (map[string]interface{}, error) {
	uri := a.buildURI(endpoint, params)

	var body *bytes.Reader

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %s %s payload: %w", method, uri, err)
		}

		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	request, err := http.NewRequest(method, uri, body)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Authorization", "Bearer "+a.token)

	response, err := a.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, uri, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		klog.Warningf("%s %s returned %d", method, uri, response.StatusCode)
	} else {
		klog.V(2).Infof("%s %s returned %d", method, uri, response.StatusCode)
	}

	if response.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	decoded := map[string]interface{}{}

	err = json.NewDecoder(response.Body).Decode(&decoded)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s %s response: %w", method, uri, err)
	}

	return decoded, nil
}

/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"github.com/tdl-lab/go-tdl/pkg/config"
	"github.com/tdl-lab/go-tdl/pkg/srv/busmon"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s/api", cfg.ApiAddr()),
	}
}

func (c *ApiClient) journalUrl(family tdl.Family, n int) string {
	return fmt.Sprintf("%s/journal/%s/%d", c.ApiPrefix, family, n)
}

// Status requests the monitor server counters
func (c *ApiClient) Status() (*busmon.Status, error) {
	r, err := req.Get(fmt.Sprintf("%s/status", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	status := &busmon.Status{}
	err = r.ToJSON(status)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Time requests the state of the terminal time filters
func (c *ApiClient) Time() (*busmon.TimeStatus, error) {
	r, err := req.Get(fmt.Sprintf("%s/time", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	status := &busmon.TimeStatus{}
	err = r.ToJSON(status)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Journal requests the last n journaled messages of a family
func (c *ApiClient) Journal(family tdl.Family, n int) ([]*busmon.Entry, error) {
	r, err := req.Get(c.journalUrl(family, n))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var entries []*busmon.Entry
	err = r.ToJSON(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Persist sends request to start writing received bus records to a capture file
func (c *ApiClient) Persist(dir, prefix string) (string, error) {
	persist := &busmon.PersistRequest{
		Dir:    dir,
		Prefix: prefix,
	}
	r, err := req.Post(fmt.Sprintf("%s/persist", c.ApiPrefix), req.BodyJSON(persist))
	if err != nil {
		return "", err
	}
	if r.Response().StatusCode != 200 {
		return "", errors.New(r.Response().Status)
	}
	resp := &busmon.PersistResponse{}
	err = r.ToJSON(resp)
	if err != nil {
		return "", err
	}
	return resp.Path, nil
}

// Flush sends request to close the active capture file
func (c *ApiClient) Flush() (*busmon.FlushResponse, error) {
	r, err := req.Post(fmt.Sprintf("%s/flush", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	resp := &busmon.FlushResponse{}
	err = r.ToJSON(resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

package store

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RemoteDirectory resolves campaign definitions from the external campaign
// authoring service. Used instead of GormDirectory when CAMPAIGN_API_URL is
// configured, i.e. when campaigns are not managed by this deployment.
type RemoteDirectory struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

func NewRemoteDirectory(baseURL, apiKey string) *RemoteDirectory {
	return &RemoteDirectory{
		client:  resty.New(),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (d *RemoteDirectory) ModuleCount(campaignID uint) (int, error) {
	var body struct {
		ModuleCount int `json:"module_count"`
	}
	resp, err := d.client.R().
		SetHeader("Authorization", "Bearer "+d.apiKey).
		SetResult(&body).
		Get(fmt.Sprintf("%s/campaigns/%d", d.baseURL, campaignID))
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() == 404 {
		return 0, ErrNotFound
	}
	if resp.IsError() {
		return 0, fmt.Errorf("campaign directory: unexpected status %d", resp.StatusCode())
	}
	return body.ModuleCount, nil
}

func (d *RemoteDirectory) ModuleTarget(campaignID uint, moduleID string) (int, error) {
	var body struct {
		QuestionTarget int `json:"question_target"`
	}
	resp, err := d.client.R().
		SetHeader("Authorization", "Bearer "+d.apiKey).
		SetResult(&body).
		Get(fmt.Sprintf("%s/campaigns/%d/modules/%s", d.baseURL, campaignID, moduleID))
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() == 404 {
		return 0, ErrNotFound
	}
	if resp.IsError() {
		return 0, fmt.Errorf("campaign directory: unexpected status %d", resp.StatusCode())
	}
	return body.QuestionTarget, nil
}

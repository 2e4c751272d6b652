package cloudbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DownloadInfo 云存储文件的临时下载地址
type DownloadInfo struct {
	CloudObjectID      string `json:"cloudObjectId"`
	DownloadURL        string `json:"downloadUrl"`
	DownloadURLEncoded string `json:"downloadUrlEncoded"`
	Code               string `json:"code"`
}

// DownloadInfos 批量获取临时下载地址，空 ID 会被忽略
func (c *Client) DownloadInfos(ctx context.Context, fileIDs ...string) ([]DownloadInfo, error) {
	items := make([]map[string]string, 0, len(fileIDs))
	for _, id := range fileIDs {
		if id = strings.TrimSpace(id); id != "" {
			items = append(items, map[string]string{"cloudObjectId": id})
		}
	}
	if len(items) == 0 {
		return []DownloadInfo{}, nil
	}

	auth, err := c.systemAuthHeader()
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/v1/storages/get-objects-download-info",
		headers: map[string]string{"Authorization": auth},
		body:    items,
	})
	if err != nil {
		return nil, err
	}

	var infos []DownloadInfo
	if err := json.Unmarshal(body, &infos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal download info: %w", err)
	}
	return infos, nil
}

// SignedURL 获取单个文件的临时下载地址
func (c *Client) SignedURL(ctx context.Context, fileID string) (DownloadInfo, error) {
	infos, err := c.DownloadInfos(ctx, fileID)
	if err != nil {
		return DownloadInfo{}, err
	}
	if len(infos) == 0 {
		return DownloadInfo{}, fmt.Errorf("no download info for %s", fileID)
	}
	return infos[0], nil
}

// weroxctl 以指定 openid 调用 BFF，BFF 不可用且配置了直连数据库时在本地完成
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/bootstrap"
	btsConfig "github.com/boshenzh/werox-wechat-mini-program/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/bffclient"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
)

func init() {
	btsConfig.Initialize()
}

func main() {
	var (
		env     string
		openid  string
		action  string
		eventID int64
		limit   int
	)
	flag.StringVar(&env, "env", "", "加载 .env.name 文件")
	flag.StringVar(&openid, "openid", "", "调用者 openid")
	flag.StringVar(&action, "action", "events", "events | event | me | role | registration | album")
	flag.Int64Var(&eventID, "event", 0, "赛事 ID")
	flag.IntVar(&limit, "limit", 0, "列表条数")
	flag.Parse()

	config.InitConfig(env)
	bootstrap.SetupLogger()
	if err := bootstrap.SetupDB(); err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}

	client := bootstrap.SetupBFFClient(openid)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := run(ctx, client, action, eventID, limit)
	if err != nil {
		log.Fatalf("%s 失败: %v", action, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, client *bffclient.Client, action string, eventID int64, limit int) (interface{}, error) {
	switch action {
	case "events":
		return client.ListEvents(ctx, services.Page{Limit: limit})
	case "event":
		return client.GetEventDetail(ctx, eventID)
	case "me":
		return client.GetMe(ctx)
	case "role":
		return client.Role(ctx)
	case "registration":
		return client.GetMyRegistration(ctx, eventID)
	case "album":
		return client.GetEventAlbumSummary(ctx, eventID)
	default:
		return nil, fmt.Errorf("未知的 action: %s", action)
	}
}

// @title AI Tutor 后端 API
// @version 1.0
// @description AI 辅导学习平台的后端服务：课程生成、作业评分与学习进度。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"ai_tutor_backend/internal/cli"
	"fmt"
	"os"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

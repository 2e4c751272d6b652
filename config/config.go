// Package config 存放程序所有的配置信息
package config

// Initialize 触发加载 config 目录下其他文件中的 init 方法
func Initialize() {}

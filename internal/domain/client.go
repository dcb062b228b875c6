package domain

import (
	"time"
)

// Client 客户读模型
//
// 客户主数据由 CRUD 层维护，本服务只读取回调相关字段。
type Client struct {
	Id              uint64 `json:"id"`
	CompanyName     string `json:"company_name"`
	CallbackUrl     string `json:"callback_url"`
	CallbackEnabled bool   `json:"callback_enabled"`
}

// ClientSecret 客户签名密钥
//
// 与客户一对一，首次使用时懒创建，除显式轮换外不可变。
type ClientSecret struct {
	ClientId  uint64
	Value     string
	CreatedAt time.Time
}

package web

// Result 统一响应包装
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func successResult(data any) Result {
	return Result{Code: 0, Msg: "ok", Data: data}
}

func errorResult(code int, msg string) Result {
	return Result{Code: code, Msg: msg}
}

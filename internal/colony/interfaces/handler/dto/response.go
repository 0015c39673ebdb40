package dto

// Response HTTP 统一返回结构，ws 的 code/msg 在 RespBody 里。
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Response {
	return Response{Code: code, Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// BindJSON 将 WsMsgReq.Body.Msg（json 解出来的 map）解码到目标结构体。
// 字段按 json tag 匹配；枚举类型走 UnmarshalText，数字字符串可以转成数字。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	if req.Body.Msg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}

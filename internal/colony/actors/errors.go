package actors

import "SpaceColony/modules/kit/errx"

func errReqParam(msg string) error {
	return errx.ErrReqParamERR.WithData("detail", msg)
}

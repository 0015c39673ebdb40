package entity

import "SpaceColony/modules/kit/errx"

// Reason 指令被拒绝的原因，对外以字符串暴露。
type Reason string

func (r Reason) ReasonCode() string { return string(r) }

const (
	ReasonShipNotFound        Reason = "SHIP_NOT_FOUND"
	ReasonShipNotDocked       Reason = "SHIP_NOT_DOCKED"
	ReasonWrongShipType       Reason = "WRONG_SHIP_TYPE"
	ReasonDestinationUnset    Reason = "DESTINATION_UNSET"
	ReasonDestinationSame     Reason = "DESTINATION_SAME_AS_ORIGIN"
	ReasonDestinationInvalid  Reason = "DESTINATION_INVALID"
	ReasonInsufficientFuel    Reason = "INSUFFICIENT_FUEL"
	ReasonInsufficientStock   Reason = "INSUFFICIENT_RESOURCES"
	ReasonInsufficientCredits Reason = "INSUFFICIENT_CREDITS"
	ReasonInsufficientPeople  Reason = "INSUFFICIENT_POPULATION"
	ReasonInsufficientInvest  Reason = "INSUFFICIENT_INVESTMENT"
	ReasonCapacityExceeded    Reason = "CAPACITY_EXCEEDED"
	ReasonPeopleLimit         Reason = "PEOPLE_LIMIT_EXCEEDED"
	ReasonStationExists       Reason = "STATION_ALREADY_EXISTS"
	ReasonLocationDisallowed  Reason = "LOCATION_NOT_ALLOWED"
	ReasonNotColonized        Reason = "LOCATION_NOT_COLONIZED"
	ReasonNotColonizeOrder    Reason = "NOT_A_COLONIZE_ORDER"
	ReasonFrigateBusy         Reason = "FRIGATE_NOT_IDLE"
	ReasonRaiderNotFound      Reason = "RAIDER_NOT_FOUND"
	ReasonRaiderNotVisible    Reason = "RAIDER_NOT_VISIBLE"
	ReasonInvalidAmount       Reason = "INVALID_AMOUNT"
	ReasonInvalidLocation     Reason = "INVALID_LOCATION"
	ReasonInvalidShipType     Reason = "INVALID_SHIP_TYPE"
)

func reject(r Reason) error {
	return errx.ErrGuardRejected.WithReason(r)
}

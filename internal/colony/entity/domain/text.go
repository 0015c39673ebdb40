package domain

// 枚举在 JSON 里按名字收发，便于前端和日志阅读。

func (l Location) MarshalText() ([]byte, error) { return []byte(l.Key()), nil }

func (l *Location) UnmarshalText(b []byte) error {
	s := string(b)
	if s == "none" {
		s = ""
	}
	v, err := ParseLocationKey(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (t ShipType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ShipType) UnmarshalText(b []byte) error {
	if string(b) == "none" || len(b) == 0 {
		*t = ShipTypeNone
		return nil
	}
	v, err := ParseShipType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (s ShipState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ShipState) UnmarshalText(b []byte) error {
	v, err := ParseShipState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (o Operation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Operation) UnmarshalText(b []byte) error {
	v, err := ParseOperation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (k CombatKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *CombatKind) UnmarshalText(b []byte) error {
	v, err := ParseCombatKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func (r Route) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Route) UnmarshalText(b []byte) error {
	if string(b) == "none" {
		*r = RouteNone
		return nil
	}
	v, err := ParseRoute(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r Resource) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Resource) UnmarshalText(b []byte) error {
	v, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

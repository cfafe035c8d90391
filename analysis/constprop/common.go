package constprop

import "errors"

var errInternal = errors.New("internal error")

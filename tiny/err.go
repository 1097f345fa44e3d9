// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"github.com/ezrec/tinycomp/translate"
)

var f = translate.From

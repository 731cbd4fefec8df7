// Package all registers all built-in netcommand drivers.
//
// Import for side effects:
//
//	import _ "netcommand/internal/driver/all"
package all

import (
	_ "netcommand/internal/driver/mock"
	_ "netcommand/internal/driver/ssh"
)

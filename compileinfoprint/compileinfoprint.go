// compileinfoprint is imported for the side effect of printing the glytrait
// build information to os.Stderr when a binary starts.
package compileinfoprint

import "github.com/carbocation/glytrait/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}

package backend

import "os"

// interruptSignal is sent to a backend subprocess to cancel its current
// turn without killing it outright, matching syscall.SIGINT for Claude
// CLI interruption.
var interruptSignal = os.Interrupt

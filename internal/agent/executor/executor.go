package executor

// Executor defines a unit of work run on a host.
// Run returns nil on success; any error marks the unit as failed.
type Executor interface {
	Name() string
	Run() error
}

// ExitCode maps an Executor result to a process exit status: 0 or 1, nothing else.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

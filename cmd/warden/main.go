// Command warden is the pre-deployment policy gate for autonomous code
// changes: it checks proposed patches against the execution policy,
// records change-lifecycle events to the audit trail, and serves the
// inspection API.
package main

func main() {
	Execute()
}

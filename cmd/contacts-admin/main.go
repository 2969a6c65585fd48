// contacts-admin runs maintenance tasks against the contacts database:
// schema migrations, user provisioning, CSV export and QR code previews.
package main

import "os"

func main() {
	if err := execute(&app{}, os.Args[1:], os.Stdout); err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}

// seehuhn.de/go/pdftext - extract text and tables from PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdftext

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// TerminalPassword returns a password callback for [ReaderOptions] which
// interactively asks for a password on the controlling terminal.  After
// maxTries failed attempts the callback gives up and the open fails
// with an [*AuthenticationError].
func TerminalPassword(maxTries int) func(ID []byte, try int) string {
	return func(ID []byte, try int) string {
		if try >= maxTries {
			return ""
		}
		if try == 0 {
			fmt.Fprintln(os.Stderr, "this file is encrypted")
		} else {
			fmt.Fprintln(os.Stderr, "wrong password, try again")
		}
		fmt.Fprint(os.Stderr, "password: ")
		passwd, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return ""
		}
		return string(passwd)
	}
}

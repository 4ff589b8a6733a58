package main

import "strings"

// maxNickLength is the longest a nickname may be, per the NICK command's
// validation rule.
const maxNickLength = 9

// maxUserLength is the longest a username may be, per the USER command's
// validation rule.
const maxUserLength = 12

// maxRealNameLength is the longest a realname may be.
const maxRealNameLength = 50

// maxChannelBodyLength is the longest a channel name may be, not counting
// the leading #.
const maxChannelBodyLength = 20

// canonicalizeNick converts a nick to its canonical form for use as a map
// key. Comparison is otherwise case-sensitive per the wire protocol; this
// exists only so the same string always hashes to the same bucket.
func canonicalizeNick(n string) string {
	return n
}

// canonicalizeChannel converts a channel name to its canonical lookup key:
// lowercase, with the leading # stripped.
func canonicalizeChannel(c string) string {
	c = strings.TrimPrefix(c, "#")
	return strings.ToLower(c)
}

// isValidNick reports whether n is an acceptable nickname.
func isValidNick(n string) bool {
	if len(n) == 0 || len(n) > maxNickLength {
		return false
	}

	for i, ch := range n {
		if i == 0 {
			if ch >= '0' && ch <= '9' {
				return false
			}
			if ch == '-' {
				return false
			}
		}
		if !isNickChar(ch) {
			return false
		}
	}

	return true
}

func isNickChar(ch rune) bool {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case strings.ContainsRune(`[]\`+"`"+`_^{|}-`, ch):
		return true
	}
	return false
}

// isValidUser reports whether u is an acceptable username (the first
// parameter of the USER command).
func isValidUser(u string) bool {
	if len(u) == 0 || len(u) > maxUserLength {
		return false
	}

	for i, ch := range u {
		isAlnum := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') ||
			(ch >= '0' && ch <= '9')
		if !isAlnum {
			return false
		}
		if i == 0 && ch >= '0' && ch <= '9' {
			return false
		}
	}

	return true
}

// isValidRealName reports whether r is an acceptable realname. An empty
// realname is always acceptable; this is only consulted when r != "".
func isValidRealName(r string) bool {
	if len(r) > maxRealNameLength {
		return false
	}

	for _, ch := range r {
		isAlnum := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') ||
			(ch >= '0' && ch <= '9')
		if isAlnum || ch == ' ' {
			continue
		}
		if strings.ContainsRune(`[]\`+"`"+`_^{|}-`, ch) {
			continue
		}
		return false
	}

	return true
}

// isValidChannelBody reports whether body (the channel name with any
// leading # already stripped) is acceptable.
func isValidChannelBody(body string) bool {
	if len(body) == 0 || len(body) > maxChannelBodyLength {
		return false
	}

	for i, ch := range body {
		isAlnum := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') ||
			(ch >= '0' && ch <= '9')
		if ch == '_' {
			if i == 0 {
				return false
			}
			continue
		}
		if i == 0 && ch >= '0' && ch <= '9' {
			return false
		}
		if !isAlnum {
			return false
		}
	}

	return true
}

// isChannelName reports whether s names a channel (as opposed to a nick),
// per the wire convention that channel names begin with #.
func isChannelName(s string) bool {
	return len(s) > 0 && s[0] == '#'
}

package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NewCommit builds a commit for tree. parent may be nil for a root commit.
func NewCommit(tree Hash, parent *Hash, author, committer Signature, message string) *Commit {
	c := &Commit{
		TreeHash:  tree,
		Author:    author,
		Committer: committer,
		Message:   message,
	}
	if parent != nil {
		c.Parents = []Hash{*parent}
	}
	return c
}

// MarshalCommit serializes a Commit:
//
//	tree H
//	parent H     (zero or more)
//	author NAME <EMAIL> UNIX TZ
//	committer NAME <EMAIL> UNIX TZ
//
//	message
//
// A newline is appended to the message when it does not end with one.
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	if !strings.HasSuffix(c.Message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// UnmarshalCommit parses a commit payload. The returned Message keeps its
// trailing newline.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, newParseError(data, 0, "commit: missing header/message separator")
	}
	c := &Commit{Message: string(data[idx+2:])}

	off := 0
	var sawTree bool
	for _, line := range bytes.Split(data[:idx], []byte("\n")) {
		key, val, ok := strings.Cut(string(line), " ")
		if !ok {
			return nil, newParseError(data, off, "commit: malformed header line")
		}
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, newParseError(data, off, "commit: bad tree hash")
			}
			c.TreeHash = h
			sawTree = true
		case "parent":
			h, err := ParseHash(val)
			if err != nil {
				return nil, newParseError(data, off, "commit: bad parent hash")
			}
			c.Parents = append(c.Parents, h)
		case "author":
			sig, err := parseSignature(val)
			if err != nil {
				return nil, newParseError(data, off, "commit: bad author: %v", err)
			}
			c.Author = sig
		case "committer":
			sig, err := parseSignature(val)
			if err != nil {
				return nil, newParseError(data, off, "commit: bad committer: %v", err)
			}
			c.Committer = sig
		default:
			// gpgsig, encoding and friends are not modelled.
		}
		off += len(line) + 1
	}
	if !sawTree {
		return nil, newParseError(data, 0, "commit: missing tree header")
	}
	return c, nil
}

// Validate rejects a name or email that would break the signature line.
func (s Signature) Validate() error {
	for _, field := range []string{s.Name, s.Email} {
		if strings.ContainsAny(field, "<>\n\x00") {
			return newParseError([]byte(field), -1, "signature: forbidden character in %q", field)
		}
	}
	return nil
}

// Validate checks the author and committer signatures.
func (c *Commit) Validate() error {
	if err := c.Author.Validate(); err != nil {
		return fmt.Errorf("author: %w", err)
	}
	if err := c.Committer.Validate(); err != nil {
		return fmt.Errorf("committer: %w", err)
	}
	return nil
}

// String formats s as "Name <email> unix-seconds ±hhmm".
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

func parseSignature(s string) (Signature, error) {
	open := strings.LastIndexByte(s, '<')
	closing := strings.LastIndexByte(s, '>')
	if open < 0 || closing < open {
		return Signature{}, fmt.Errorf("missing <email>")
	}
	sig := Signature{
		Name:  strings.TrimSuffix(s[:open], " "),
		Email: s[open+1 : closing],
	}

	fields := strings.Fields(s[closing+1:])
	if len(fields) != 2 {
		return Signature{}, fmt.Errorf("want timestamp and timezone, got %q", s[closing+1:])
	}
	unix, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("timestamp %q: %w", fields[0], err)
	}
	loc, err := parseTimezone(fields[1])
	if err != nil {
		return Signature{}, err
	}
	sig.When = time.Unix(unix, 0).In(loc)
	return sig, nil
}

func parseTimezone(tz string) (*time.Location, error) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return nil, fmt.Errorf("timezone %q: want ±hhmm", tz)
	}
	hh, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}
	mm, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}
	offset := hh*3600 + mm*60
	if tz[0] == '-' {
		offset = -offset
	}
	return time.FixedZone("", offset), nil
}

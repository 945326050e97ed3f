package object

// CommitSigningPayload returns the canonical bytes that are signed for a
// commit: the commit encoding without the gpgsig header.
func CommitSigningPayload(c *CommitObj) []byte {
	if c == nil {
		return nil
	}
	copyCommit := *c
	copyCommit.GPGSig = ""
	return MarshalCommit(&copyCommit)
}

package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// TextPatch renders a character level patch turning from into to, in the unidiff-like text format of diffmatchpatch.
// An empty string means the texts are identical.
// TextPatch 生成从 from 到 to 的字符级补丁文本，相同时返回空字符串
func TextPatch(from, to string) string {
	if from == to {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(from, diffs))
}

// ApplyTextPatch applies a patch produced by TextPatch to from.
// ok is false when any hunk fails to apply.
// ApplyTextPatch 将 TextPatch 生成的补丁应用到 from
func ApplyTextPatch(from, patch string) (string, bool, error) {
	if patch == "" {
		return from, true, nil
	}
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", false, err
	}
	out, applied := dmp.PatchApply(patches, from)
	for _, ok := range applied {
		if !ok {
			return out, false, nil
		}
	}
	return out, true, nil
}

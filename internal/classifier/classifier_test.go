package classifier

import "testing"

func TestClassifyInteractiveEditor(t *testing.T) {
	v := Classify("vim file.txt")
	if v.Level != Interactive {
		t.Fatalf("expected interactive, got %s", v.Level)
	}
	if v.Suggestion == "" {
		t.Fatalf("expected a suggestion for vim")
	}
}

func TestClassifyCautiousSudo(t *testing.T) {
	v := Classify("sudo apt-get update")
	if v.Level != Cautious {
		t.Fatalf("expected cautious, got %s", v.Level)
	}
}

func TestClassifySafe(t *testing.T) {
	v := Classify("ls -la /tmp")
	if v.Level != Safe {
		t.Fatalf("expected safe, got %s", v.Level)
	}
}

func TestClassifyPipeSegmentsChecked(t *testing.T) {
	v := Classify("echo hi | vim -")
	if v.Level != Interactive {
		t.Fatalf("expected interactive from second pipe segment, got %s", v.Level)
	}
}

func TestClassifyQuotedPipeNotSplit(t *testing.T) {
	// The '|' here is inside single quotes and must not be treated as a
	// pipeline boundary, so the whole thing should classify as one segment.
	v := Classify("echo 'a|b'")
	if v.Level != Safe {
		t.Fatalf("expected safe, got %s (%s)", v.Level, v.Pattern)
	}
}

func TestClassifySSHWithoutFlags(t *testing.T) {
	v := Classify("ssh host")
	if v.Level != Interactive {
		t.Fatalf("expected interactive, got %s", v.Level)
	}
}

func TestClassifySSHWithNonInteractiveFlag(t *testing.T) {
	v := Classify("ssh -T host")
	if v.Level == Interactive {
		t.Fatalf("expected ssh -T not to classify as interactive, got %s", v.Level)
	}
}

func TestClassifyAptGetInstallWithoutYes(t *testing.T) {
	v := Classify("apt-get install pkg")
	if v.Level != Cautious {
		t.Fatalf("expected cautious, got %s", v.Level)
	}
}

func TestClassifyAptGetInstallWithYes(t *testing.T) {
	v := Classify("apt-get install -y pkg")
	if v.Level == Cautious {
		t.Fatalf("expected apt-get install -y not to classify as cautious, got %s", v.Level)
	}
}

func TestClassifyCopyWithoutForceFlag(t *testing.T) {
	v := Classify("cp a b")
	if v.Level != Cautious {
		t.Fatalf("expected cautious, got %s", v.Level)
	}
}

func TestClassifyCopyWithForceFlag(t *testing.T) {
	v := Classify("cp -f a b")
	if v.Level == Cautious {
		t.Fatalf("expected cp -f not to classify as cautious, got %s", v.Level)
	}
}

func TestClassifySafeIffNoPatternMatches(t *testing.T) {
	cases := []string{
		"ls", "git status", "echo hello world", "cat file.txt | grep foo",
	}
	for _, c := range cases {
		if v := Classify(c); v.Level != Safe {
			t.Errorf("Classify(%q) = %s, want safe", c, v.Level)
		}
	}
}

package domain

import "testing"

func TestTableNames(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"Source", Source{}.TableName(), "sources"},
		{"Question", Question{}.TableName(), "questions"},
		{"Answer", Answer{}.TableName(), "answers"},
		{"Tag", Tag{}.TableName(), "tags"},
		{"Theme", Theme{}.TableName(), "themes"},
		{"Halakha", Halakha{}.TableName(), "halakhot"},
		{"PublishRecord", PublishRecord{}.TableName(), "publish_records"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s.TableName() = %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

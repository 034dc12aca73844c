package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionCounts(t *testing.T) {
	tests := []struct {
		n          int
		train, val float64
		wantTrain  int
		wantVal    int
		wantTest   int
	}{
		{10, 0.8, 0.1, 8, 1, 1},
		{0, 0.8, 0.1, 0, 0, 0},
		{3, 0.8, 0.1, 2, 0, 1},
		{100, 0.7, 0.2, 70, 20, 10},
		{5, 1, 0, 5, 0, 0},
		{5, 0, 0, 0, 0, 5},
		{7, 0.5, 0.5, 3, 3, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%.1f_%.1f", tt.n, tt.train, tt.val), func(t *testing.T) {
			train, val, test := PartitionCounts(tt.n, tt.train, tt.val)
			assert.Equal(t, tt.wantTrain, train)
			assert.Equal(t, tt.wantVal, val)
			assert.Equal(t, tt.wantTest, test)
		})
	}
}

func imageNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("img_%02d.jpg", i)
	}
	return names
}

func TestPartitionDeterministicAndComplete(t *testing.T) {
	names := imageNames(10)
	first := Partition(names, 0.8, 0.1, 42)
	second := Partition(names, 0.8, 0.1, 42)
	assert.Equal(t, first, second)

	assert.Len(t, first[SplitTrain], 8)
	assert.Len(t, first[SplitVal], 1)
	assert.Len(t, first[SplitTest], 1)

	var all []string
	for _, s := range Splits {
		all = append(all, first[s]...)
	}
	sort.Strings(all)
	assert.Equal(t, names, all)

	// 输入切片不会被修改
	assert.Equal(t, imageNames(10), names)
}

func TestPartitionIgnoresListingOrder(t *testing.T) {
	names := imageNames(20)
	reversed := make([]string, len(names))
	for i, name := range names {
		reversed[len(names)-1-i] = name
	}
	assert.Equal(t, Partition(names, 0.8, 0.1, 7), Partition(reversed, 0.8, 0.1, 7))
}

func TestPartitionSeedMatters(t *testing.T) {
	names := imageNames(50)
	a := Partition(names, 0.8, 0.1, 1)
	b := Partition(names, 0.8, 0.1, 2)
	assert.NotEqual(t, a[SplitTrain], b[SplitTrain])
}

// setupSplitSources 写入n张图片，偶数编号的图片带标签
func setupSplitSources(t *testing.T, config *Config, n int) {
	t.Helper()
	for i, name := range imageNames(n) {
		writeFile(t, filepath.Join(config.ImageDir, name), "image "+name)
		if i%2 == 0 {
			writeFile(t, filepath.Join(config.LabelDir, LabelFileName(name, ".txt")), "0 0.1 0.1 0.2 0.2 0.3 0.3\n")
		}
	}
	// 其他扩展名和子目录不参与划分
	writeFile(t, filepath.Join(config.ImageDir, "notes.md"), "ignore me")
	require.NoError(t, os.MkdirAll(filepath.Join(config.ImageDir, "nested.jpg"), 0755))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSplit(t *testing.T) {
	config := testConfig(t)
	setupSplitSources(t, config, 10)
	p, _ := newTestPreparer(t, config)

	result, err := p.Split()
	require.NoError(t, err)
	assert.Equal(t, 8, result.Count(SplitTrain))
	assert.Equal(t, 1, result.Count(SplitVal))
	assert.Equal(t, 1, result.Count(SplitTest))
	assert.Equal(t, 10, result.Total())

	seen := map[string]Split{}
	labels := 0
	for _, split := range Splits {
		imgs := listDir(t, filepath.Join(config.OutputDir, "images", string(split)))
		assert.ElementsMatch(t, result.Images[split], imgs)

		for _, name := range imgs {
			_, dup := seen[name]
			assert.False(t, dup, "%s 出现在多个子集", name)
			seen[name] = split

			assert.Equal(t, "image "+name, readFile(t, filepath.Join(config.OutputDir, "images", string(split), name)))

			srcLabel := filepath.Join(config.LabelDir, LabelFileName(name, ".txt"))
			dstLabel := filepath.Join(config.OutputDir, "labels", string(split), LabelFileName(name, ".txt"))
			if _, err := os.Stat(srcLabel); err == nil {
				assert.FileExists(t, dstLabel)
				labels++
			} else {
				assert.NoFileExists(t, dstLabel)
			}
		}
	}
	assert.Len(t, seen, 10)
	assert.Equal(t, 5, labels)
	assert.Equal(t, 5, result.Labels[SplitTrain]+result.Labels[SplitVal]+result.Labels[SplitTest])

	// 原文件保持不变
	assert.Len(t, listDir(t, config.ImageDir), 12)
	assert.Len(t, listDir(t, config.LabelDir), 5)
}

func TestSplitRerun(t *testing.T) {
	config := testConfig(t)
	setupSplitSources(t, config, 10)
	p, _ := newTestPreparer(t, config)

	first, err := p.Split()
	require.NoError(t, err)
	second, err := p.Split()
	require.NoError(t, err)
	assert.Equal(t, first.Images, second.Images)
}

func TestSplitEmptyDirCreatesLayout(t *testing.T) {
	config := testConfig(t)
	require.NoError(t, os.MkdirAll(config.ImageDir, 0755))
	p, _ := newTestPreparer(t, config)

	result, err := p.Split()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())
	for _, kind := range []string{"images", "labels"} {
		for _, split := range Splits {
			assert.DirExists(t, filepath.Join(config.OutputDir, kind, string(split)))
		}
	}
}

func TestSplitMissingImageDir(t *testing.T) {
	p, _ := newTestPreparer(t, testConfig(t))
	_, err := p.Split()
	assert.Error(t, err)
}

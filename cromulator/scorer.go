package cromulator

// Order 两个块拼接的先后顺序
type Order int

const (
	AThenB Order = iota
	BThenA
)

func (o Order) String() string {
	if o == BThenA {
		return "b+a"
	}
	return "a+b"
}

// Scorer 计算两个块相邻时的压缩收益：压缩(拼接) - 各自单独压缩之和。
// 越小（越负）越好。内部复用拼接缓冲区，不能并发使用。
type Scorer struct {
	oracle Oracle
	buf    []byte
	calls  int
}

func NewScorer(oracle Oracle) *Scorer {
	return &Scorer{oracle: oracle}
}

// Score a、b 的 Size 必须已由 Measure 填好
func (s *Scorer) Score(a, b Block, order Order) (int, error) {
	first, second := a.Text, b.Text
	if order == BThenA {
		first, second = second, first
	}
	s.buf = append(s.buf[:0], first...)
	s.buf = append(s.buf, second...)
	s.calls++
	size, err := s.oracle.CompressedSize(s.buf)
	if err != nil {
		return 0, &OracleError{Op: "score " + order.String(), Len: len(s.buf), Err: err}
	}
	return size - a.Size - b.Size, nil
}

// Calls 已调用 oracle 的次数
func (s *Scorer) Calls() int {
	return s.calls
}

/*
Package piggy implements the client side logic of a time locked savings
object ("piggy bank").

The object holds a balance, a goal and an unlock time. Deposits increase the
balance. Once the balance reaches the goal and the unlock time has passed, the
owner can break the object open, which pays out the balance and destroys the
object. These rules are enforced by the Move package on chain. This package
reads the object (ExtractFields), computes what the user can do with it
(Derive), builds transactions (BuildCreate, BuildDeposit, BuildBreak) and
coordinates their execution (Controller).
*/
package piggy
